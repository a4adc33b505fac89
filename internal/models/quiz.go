package models

// QuizQuestion asks for the meaning of a word
type QuizQuestion struct {
	VocabularyID    int64    `json:"vocabularyId"`
	Word            string   `json:"word"`
	PhoneticText    string   `json:"phoneticText"`
	PartOfSpeech    string   `json:"partOfSpeech"`
	Options         []string `json:"options"`
	CorrectAnswer   string   `json:"correctAnswer"`
	UserImageBase64 *string  `json:"userImageBase64"`
}

// ReverseQuizQuestion shows the meaning and asks for the word
type ReverseQuizQuestion struct {
	VocabularyID       int64    `json:"vocabularyId"`
	UserDefinedMeaning string   `json:"userDefinedMeaning"`
	PhoneticText       string   `json:"phoneticText"`
	PartOfSpeech       string   `json:"partOfSpeech"`
	Options            []string `json:"options"`
	CorrectAnswer      string   `json:"correctAnswer"`
	UserImageBase64    *string  `json:"userImageBase64"`
}

// Validation stages reported by the sentence validator
const (
	StageKeyword      = "keyword"
	StageCompleteness = "completeness"
	StageGrammar      = "grammar"
	StagePassed       = "passed"
)

// SentenceCheckResult is the outcome of validating a learner's sentence
type SentenceCheckResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
	Stage     string `json:"-"`
}
