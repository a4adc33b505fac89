package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletenessChecker_IsComplete(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		tokens   []TaggedToken
		expected bool
	}{
		{
			name:     "verb present",
			text:     "The cat sleeps.",
			tokens:   []TaggedToken{{"The", "DT"}, {"cat", "NN"}, {"sleeps", "VBZ"}, {".", "."}},
			expected: true,
		},
		{
			name:     "past tense verb",
			text:     "She went home",
			tokens:   []TaggedToken{{"She", "PRP"}, {"went", "VBD"}, {"home", "NN"}},
			expected: true,
		},
		{
			name:     "noun phrase only",
			text:     "The cat",
			tokens:   []TaggedToken{{"The", "DT"}, {"cat", "NN"}},
			expected: false,
		},
		{
			name:     "modal alone is not a verb tag",
			text:     "Can",
			tokens:   []TaggedToken{{"Can", "MD"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagger := &stubTagger{tokens: tt.tokens}
			checker := NewCompletenessChecker(NewContractionNormalizer(), tagger)

			complete, err := checker.IsComplete(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, complete)
		})
	}
}

func TestCompletenessChecker_BlankInputSkipsTagger(t *testing.T) {
	tagger := &stubTagger{tokens: []TaggedToken{{"is", "VBZ"}}}
	checker := NewCompletenessChecker(NewContractionNormalizer(), tagger)

	for _, text := range []string{"", "   ", "\t\n"} {
		complete, err := checker.IsComplete(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, complete)
	}
	assert.Empty(t, tagger.seen)
}

func TestCompletenessChecker_TagsNormalizedText(t *testing.T) {
	tagger := &stubTagger{tokens: []TaggedToken{{"is", "VBZ"}}}
	checker := NewCompletenessChecker(NewContractionNormalizer(), tagger)

	_, err := checker.IsComplete(context.Background(), "It's cold")
	require.NoError(t, err)
	require.Len(t, tagger.seen, 1)
	assert.Equal(t, "it is cold", tagger.seen[0])
}

func TestCompletenessChecker_TaggerError(t *testing.T) {
	tagger := &stubTagger{err: errors.New("model unavailable")}
	checker := NewCompletenessChecker(NewContractionNormalizer(), tagger)

	complete, err := checker.IsComplete(context.Background(), "The cat sleeps")
	assert.Error(t, err)
	assert.False(t, complete)
}
