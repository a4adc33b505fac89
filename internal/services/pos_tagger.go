package services

import (
	"strings"

	contextutils "lexiquiz/internal/utils"

	"github.com/jdkato/prose/v2"
	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"
)

// ProseTagger splits text into sentences with the punkt English model and tags
// each sentence with prose's averaged perceptron. Both models are loaded once
// and are read-only afterwards.
type ProseTagger struct {
	splitter *sentences.DefaultSentenceTokenizer
	model    *prose.Model
}

// NewProseTagger loads the embedded punkt training data and the prose tagging model
func NewProseTagger() (*ProseTagger, error) {
	trainingData, err := sentencesdata.Asset("english.json")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to read punkt english model")
	}
	storage, err := sentences.LoadTraining(trainingData)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to load punkt english model")
	}

	// The first document pays for loading the tagger; later ones share it
	warmup, err := prose.NewDocument("The model is ready.",
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to load prose tagging model")
	}

	return &ProseTagger{
		splitter: sentences.NewSentenceTokenizer(storage),
		model:    warmup.Model,
	}, nil
}

// Tag returns the tagged tokens of every sentence in text, in order
func (t *ProseTagger) Tag(text string) ([]TaggedToken, error) {
	var tokens []TaggedToken
	for _, sentence := range t.split(text) {
		doc, err := prose.NewDocument(sentence,
			prose.UsingModel(t.model),
			prose.WithSegmentation(false),
			prose.WithExtraction(false))
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to tag sentence %q", sentence)
		}
		for _, tok := range doc.Tokens() {
			tokens = append(tokens, TaggedToken{Text: tok.Text, Tag: tok.Tag})
		}
	}
	return tokens, nil
}

func (t *ProseTagger) split(text string) []string {
	var parts []string
	for _, s := range t.splitter.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 && strings.TrimSpace(text) != "" {
		parts = append(parts, strings.TrimSpace(text))
	}
	return parts
}
