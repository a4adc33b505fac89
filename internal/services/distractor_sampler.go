package services

import (
	"math/rand/v2"

	"lexiquiz/internal/config"
)

// Shuffler permutes n elements through swap, as rand.Shuffle does
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler is a Fisher-Yates shuffle over the global source
var DefaultShuffler Shuffler = rand.Shuffle

// DistractorSampler picks wrong answers for multiple-choice questions
type DistractorSampler struct {
	shuffle Shuffler
}

// NewDistractorSampler returns a sampler using shuffle, or DefaultShuffler when nil
func NewDistractorSampler(shuffle Shuffler) *DistractorSampler {
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	return &DistractorSampler{shuffle: shuffle}
}

// Sample returns up to count distinct values from pool, excluding correct and
// empty strings. Fewer are returned when the pool is too small.
func (s *DistractorSampler) Sample(pool []string, correct string, count int) []string {
	if count <= 0 {
		count = config.DefaultDistractorCount
	}

	seen := make(map[string]struct{}, len(pool))
	candidates := make([]string, 0, len(pool))
	for _, value := range pool {
		if value == "" || value == correct {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		candidates = append(candidates, value)
	}

	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// BuildOptions returns correct plus its distractors in random order
func (s *DistractorSampler) BuildOptions(pool []string, correct string, count int) []string {
	options := append([]string{correct}, s.Sample(pool, correct, count)...)
	s.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
