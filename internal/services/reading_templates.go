package services

import (
	"embed"
	"strings"
	"text/template"

	contextutils "lexiquiz/internal/utils"
)

//go:embed templates/*.tmpl
var readingTemplatesFS embed.FS

//go:embed templates/examples/*.json
var readingExamplesFS embed.FS

// ReadingPromptTemplate is the template used to ask for a story with questions
const ReadingPromptTemplate = "reading_prompt.tmpl"

const (
	readingQuestionCount = 3
	readingOptionCount   = 3
)

// ReadingPromptData holds the values rendered into the reading prompt
type ReadingPromptData struct {
	Topic         string
	Vocabulary    []string
	Difficulty    string
	Example       string
	QuestionCount int
	OptionCount   int
}

// ReadingTemplateManager renders the embedded reading prompt templates
type ReadingTemplateManager struct {
	templates *template.Template
	example   string
}

// NewReadingTemplateManager parses the embedded templates and loads the response example
func NewReadingTemplateManager() (result0 *ReadingTemplateManager, err error) {
	templates, err := template.New("").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(readingTemplatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to parse reading templates")
	}

	example, err := readingExamplesFS.ReadFile("templates/examples/reading_example.json")
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load reading example: %w", err)
	}

	return &ReadingTemplateManager{
		templates: templates,
		example:   strings.TrimSpace(string(example)),
	}, nil
}

// RenderPrompt builds the prompt for the given words, level and topic
func (tm *ReadingTemplateManager) RenderPrompt(words []string, level int, topic string) (string, error) {
	data := ReadingPromptData{
		Topic:         topic,
		Vocabulary:    words,
		Difficulty:    DifficultyDescription(level),
		Example:       tm.example,
		QuestionCount: readingQuestionCount,
		OptionCount:   readingOptionCount,
	}

	var buf strings.Builder
	if err := tm.templates.ExecuteTemplate(&buf, ReadingPromptTemplate, data); err != nil {
		return "", contextutils.WrapError(err, "failed to render reading prompt")
	}
	return buf.String(), nil
}

// DifficultyDescription maps a 1-5 level to the CEFR phrase used in the prompt. Unknown levels read as B1.
func DifficultyDescription(level int) string {
	switch level {
	case 1:
		return "at a simple A2 (Elementary) English level"
	case 2:
		return "at a B1 (Intermediate) English level"
	case 3:
		return "at a B2 (Upper-Intermediate) English level"
	case 4:
		return "at a C1 (Advanced) English level"
	case 5:
		return "at a C2 (Proficient) English level"
	default:
		return "at a B1 (Intermediate) English level"
	}
}
