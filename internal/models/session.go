package models

import (
	"encoding/json"
	"strings"
	"time"
)

// RetryPrefix marks a game type as a retry of an earlier session
const RetryPrefix = "retry_"

// Session kinds returned to clients
const (
	SessionKindFlashcard   = "flashcard"
	SessionKindQuiz        = "quiz"
	SessionKindReverseQuiz = "reverse_quiz"
)

// SessionRecord is one stored game result row
type SessionRecord struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	FolderID     int64     `json:"folderId" db:"folder_id"`
	GameType     string    `json:"gameType" db:"game_type"`
	CorrectCount int       `json:"correctCount" db:"correct_count"`
	WrongCount   int       `json:"wrongCount" db:"wrong_count"`
	WrongAnswers string    `json:"wrongAnswers" db:"wrong_answers"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// EmptyWrongAnswers is the stored form of an empty wrong-answer list
const EmptyWrongAnswers = "[]"

// DecodeWrongAnswers parses the stored wrong-answer list. A blank value is an empty list.
func (s *SessionRecord) DecodeWrongAnswers() ([]int64, error) {
	raw := strings.TrimSpace(s.WrongAnswers)
	if raw == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// EncodeWrongAnswers renders ids in the compact stored form, e.g. [3,9]
func EncodeWrongAnswers(ids []int64) string {
	if len(ids) == 0 {
		return EmptyWrongAnswers
	}
	data, err := json.Marshal(ids)
	if err != nil {
		// []int64 always marshals
		return EmptyWrongAnswers
	}
	return string(data)
}

// IsRetry reports whether the record was created by a retry
func (s *SessionRecord) IsRetry() bool {
	return strings.HasPrefix(s.GameType, RetryPrefix)
}

// GameSession is what starting or retrying a game returns. Exactly one of
// Questions, ReverseQuestions or Vocabularies is set, according to Kind.
type GameSession struct {
	GameResultID     int64
	Kind             string
	Questions        []QuizQuestion
	ReverseQuestions []ReverseQuizQuestion
	Vocabularies     []VocabularyDetail
}

// MarshalJSON renders {gameResultId, questions} for quizzes and {gameResultId, vocabularies} otherwise
func (g GameSession) MarshalJSON() ([]byte, error) {
	switch g.Kind {
	case SessionKindQuiz:
		questions := g.Questions
		if questions == nil {
			questions = []QuizQuestion{}
		}
		return json.Marshal(struct {
			GameResultID int64          `json:"gameResultId"`
			Questions    []QuizQuestion `json:"questions"`
		}{g.GameResultID, questions})
	case SessionKindReverseQuiz:
		questions := g.ReverseQuestions
		if questions == nil {
			questions = []ReverseQuizQuestion{}
		}
		return json.Marshal(struct {
			GameResultID int64                 `json:"gameResultId"`
			Questions    []ReverseQuizQuestion `json:"questions"`
		}{g.GameResultID, questions})
	default:
		vocabularies := g.Vocabularies
		if vocabularies == nil {
			vocabularies = []VocabularyDetail{}
		}
		return json.Marshal(struct {
			GameResultID int64              `json:"gameResultId"`
			Vocabularies []VocabularyDetail `json:"vocabularies"`
		}{g.GameResultID, vocabularies})
	}
}
