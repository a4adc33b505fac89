package models

// GameStartRequest is the body of POST /v1/games/start
type GameStartRequest struct {
	UserID   int64  `json:"userId" validate:"gt=0"`
	FolderID int64  `json:"folderId" validate:"gt=0"`
	GameType string `json:"gameType" validate:"required,max=32"`
	SubType  string `json:"subType" validate:"max=32"`
}

// GameRetryRequest is the body of POST /v1/games/retry-wrong
type GameRetryRequest struct {
	GameResultID int64 `json:"gameResultId" validate:"gt=0"`
}

// SentenceCheckRequest is the body of POST /v1/games/check-sentence
type SentenceCheckRequest struct {
	VocabularyID int64  `json:"vocabularyId" validate:"gt=0"`
	UserAnswer   string `json:"userAnswer" validate:"required,max=1000"`
}

// ReadingRequest is the body of POST /v1/games/generate-reading.
// Level is not bounded; levels outside 1-5 are generated at the B1 band.
type ReadingRequest struct {
	FolderID int64  `json:"folderId" validate:"gt=0"`
	Level    int    `json:"level"`
	Topic    string `json:"topic" validate:"required,max=200"`
}

// GameResultUpdateRequest is the body of PUT /v1/game-results/:id
type GameResultUpdateRequest struct {
	CorrectCount int     `json:"correctCount" validate:"gte=0"`
	WrongCount   int     `json:"wrongCount" validate:"gte=0"`
	WrongAnswers []int64 `json:"wrongAnswers"`
}
