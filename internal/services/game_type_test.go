package services

import (
	"testing"

	"lexiquiz/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGameTypeTags(t *testing.T) {
	tests := []struct {
		tag      string
		base     string
		original string
		kind     string
	}{
		{"quiz", "quiz", "quiz", models.SessionKindQuiz},
		{"quiz_en_vi", "quiz_en_vi", "quiz", models.SessionKindQuiz},
		{"quiz_vi_en", "quiz_vi_en", "quiz", models.SessionKindReverseQuiz},
		{"retry_quiz_vi_en", "quiz_vi_en", "quiz", models.SessionKindReverseQuiz},
		{"retry_retry_quiz", "quiz", "quiz", models.SessionKindQuiz},
		{"flashcard", "flashcard", "flashcard", models.SessionKindFlashcard},
		{"retry_flashcard_vi_en", "flashcard_vi_en", "flashcard", models.SessionKindFlashcard},
		{"sentence", "sentence", "sentence", models.SessionKindFlashcard},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.base, BaseGameType(tt.tag))
			assert.Equal(t, tt.original, OriginalGameType(tt.tag))
			assert.Equal(t, tt.kind, SessionKind(tt.tag))
		})
	}
}

func TestComposeGameType(t *testing.T) {
	assert.Equal(t, "quiz", ComposeGameType("quiz", ""))
	assert.Equal(t, "quiz_vi_en", ComposeGameType("quiz", "vi_en"))
	assert.Equal(t, "flashcard_en_vi", ComposeGameType("flashcard", "en_vi"))
}
