package models

import (
	"encoding/json"
	"time"
)

// ReadingQuestion is a multiple-choice comprehension question. Answer is one of Options.
type ReadingQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// ReadingContent is a generated story with its questions
type ReadingContent struct {
	Story     string            `json:"story"`
	Questions []ReadingQuestion `json:"questions"`
}

// CachedContent is a persisted reading passage keyed by (folder, level, topic)
type CachedContent struct {
	ID            int64     `json:"id" db:"id"`
	FolderID      int64     `json:"folderId" db:"folder_id"`
	Level         int       `json:"level" db:"level"`
	Topic         string    `json:"topic" db:"topic"`
	Story         string    `json:"story" db:"story"`
	QuestionsJSON string    `json:"questionsJson" db:"questions_json"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// NewCachedContent prepares generated content for storage
func NewCachedContent(folderID int64, level int, topic string, content *ReadingContent) (*CachedContent, error) {
	questions := content.Questions
	if questions == nil {
		questions = []ReadingQuestion{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	return &CachedContent{
		FolderID:      folderID,
		Level:         level,
		Topic:         topic,
		Story:         content.Story,
		QuestionsJSON: string(data),
	}, nil
}

// Content decodes the stored questions back into a ReadingContent
func (c *CachedContent) Content() (*ReadingContent, error) {
	var questions []ReadingQuestion
	if err := json.Unmarshal([]byte(c.QuestionsJSON), &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []ReadingQuestion{}
	}
	return &ReadingContent{Story: c.Story, Questions: questions}, nil
}
