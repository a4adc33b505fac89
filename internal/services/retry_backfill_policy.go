package services

import (
	"lexiquiz/internal/models"
)

// RetryBackfillPolicy tops up a short list of missed items with other items from the folder
type RetryBackfillPolicy struct {
	shuffle Shuffler
}

// NewRetryBackfillPolicy returns a policy using shuffle, or DefaultShuffler when nil
func NewRetryBackfillPolicy(shuffle Shuffler) *RetryBackfillPolicy {
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	return &RetryBackfillPolicy{shuffle: shuffle}
}

// Backfill returns wrong followed by random pool items not already in wrong,
// stopping at minimum or when the pool runs out. wrong is always a prefix.
func (p *RetryBackfillPolicy) Backfill(wrong, pool []models.VocabularyItem, minimum int) []models.VocabularyItem {
	if len(wrong) >= minimum {
		return wrong
	}

	taken := make(map[int64]struct{}, len(wrong))
	for _, item := range wrong {
		taken[item.ID] = struct{}{}
	}

	remainder := make([]models.VocabularyItem, 0, len(pool))
	for _, item := range pool {
		if _, ok := taken[item.ID]; ok {
			continue
		}
		remainder = append(remainder, item)
	}
	p.shuffle(len(remainder), func(i, j int) {
		remainder[i], remainder[j] = remainder[j], remainder[i]
	})

	result := make([]models.VocabularyItem, len(wrong), minimum)
	copy(result, wrong)
	for _, item := range remainder {
		if len(result) >= minimum {
			break
		}
		result = append(result, item)
	}
	return result
}
