package services

import (
	"strings"

	"lexiquiz/internal/models"
)

const (
	gameTypeQuiz       = "quiz"
	reverseQuizSubType = "vi_en"
)

// ComposeGameType joins a game type and an optional sub type into the stored tag, e.g. quiz_vi_en
func ComposeGameType(gameType, subType string) string {
	if subType == "" {
		return gameType
	}
	return gameType + "_" + subType
}

// BaseGameType strips every retry_ prefix from a stored tag
func BaseGameType(tag string) string {
	for strings.HasPrefix(tag, models.RetryPrefix) {
		tag = strings.TrimPrefix(tag, models.RetryPrefix)
	}
	return tag
}

// OriginalGameType returns the game family of a tag: the base tag up to its first underscore
func OriginalGameType(tag string) string {
	base := BaseGameType(tag)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[:i]
	}
	return base
}

// SessionKind decides which question set a tag produces
func SessionKind(tag string) string {
	if OriginalGameType(tag) != gameTypeQuiz {
		return models.SessionKindFlashcard
	}
	if strings.HasSuffix(BaseGameType(tag), reverseQuizSubType) {
		return models.SessionKindReverseQuiz
	}
	return models.SessionKindQuiz
}
