package services

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededShuffler(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed+1)).Shuffle
}

func noShuffle(int, func(i, j int)) {}

func TestDistractorSampler_Sample(t *testing.T) {
	tests := []struct {
		name     string
		pool     []string
		correct  string
		count    int
		expected []string
	}{
		{
			name:     "excludes correct and empties",
			pool:     []string{"cat", "", "dog", "cat", "bird"},
			correct:  "cat",
			count:    3,
			expected: []string{"dog", "bird"},
		},
		{
			name:     "deduplicates keeping first",
			pool:     []string{"a", "b", "a", "c", "b"},
			correct:  "z",
			count:    5,
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "truncates to count",
			pool:     []string{"a", "b", "c", "d", "e"},
			correct:  "a",
			count:    2,
			expected: []string{"b", "c"},
		},
		{
			name:     "non-positive count uses default",
			pool:     []string{"a", "b", "c", "d", "e"},
			correct:  "e",
			count:    0,
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty pool",
			pool:     nil,
			correct:  "a",
			count:    3,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDistractorSampler(noShuffle)
			assert.Equal(t, tt.expected, s.Sample(tt.pool, tt.correct, tt.count))
		})
	}
}

func TestDistractorSampler_SampleIsRandomSubset(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f", "g"}
	s := NewDistractorSampler(seededShuffler(42))

	for i := 0; i < 50; i++ {
		got := s.Sample(pool, "d", 3)
		require.Len(t, got, 3)
		assert.NotContains(t, got, "d")
		seen := map[string]bool{}
		for _, v := range got {
			assert.Contains(t, pool, v)
			assert.False(t, seen[v], "duplicate %s", v)
			seen[v] = true
		}
	}
}

func TestDistractorSampler_BuildOptions(t *testing.T) {
	s := NewDistractorSampler(seededShuffler(7))
	pool := []string{"apple", "banana", "cherry", "date", "elder"}

	positions := map[int]int{}
	for i := 0; i < 400; i++ {
		options := s.BuildOptions(pool, "banana", 3)
		require.Len(t, options, 4)
		idx := -1
		for j, o := range options {
			if o == "banana" {
				assert.Equal(t, -1, idx, "correct answer appears twice")
				idx = j
			}
		}
		require.NotEqual(t, -1, idx)
		positions[idx]++
	}

	// Every slot should hold the correct answer at some point
	for slot := 0; slot < 4; slot++ {
		assert.Greater(t, positions[slot], 0, "slot %d never used", slot)
	}
}

func TestDistractorSampler_BuildOptions_Shortfall(t *testing.T) {
	s := NewDistractorSampler(nil)
	options := s.BuildOptions([]string{"x", "y"}, "x", 3)
	assert.ElementsMatch(t, []string{"x", "y"}, options)
}
