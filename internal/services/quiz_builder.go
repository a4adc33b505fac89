package services

import (
	"lexiquiz/internal/models"
)

// QuizBuilder turns vocabulary items into multiple-choice questions
type QuizBuilder struct {
	sampler         *DistractorSampler
	shuffle         Shuffler
	distractorCount int
}

// NewQuizBuilder creates a builder that offers distractorCount wrong options per question
func NewQuizBuilder(sampler *DistractorSampler, shuffle Shuffler, distractorCount int) *QuizBuilder {
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	return &QuizBuilder{sampler: sampler, shuffle: shuffle, distractorCount: distractorCount}
}

func (b *QuizBuilder) shuffled(items []models.VocabularyItem) []models.VocabularyItem {
	out := make([]models.VocabularyItem, len(items))
	copy(out, items)
	b.shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// BuildForward asks for the meaning of each word. Items without a meaning are skipped.
func (b *QuizBuilder) BuildForward(items []models.VocabularyItem) []models.QuizQuestion {
	items = b.shuffled(items)

	meanings := make([]string, 0, len(items))
	for i := range items {
		if items[i].HasMeaning() {
			meanings = append(meanings, items[i].DefinedMeaning())
		}
	}

	questions := make([]models.QuizQuestion, 0, len(meanings))
	for i := range items {
		item := &items[i]
		if !item.HasMeaning() {
			continue
		}
		correct := item.DefinedMeaning()
		questions = append(questions, models.QuizQuestion{
			VocabularyID:    item.ID,
			Word:            item.Word,
			PhoneticText:    item.PhoneticText,
			PartOfSpeech:    item.PartOfSpeech(),
			Options:         b.sampler.BuildOptions(meanings, correct, b.distractorCount),
			CorrectAnswer:   correct,
			UserImageBase64: item.UserImageBase64,
		})
	}
	return questions
}

// BuildReverse shows each meaning and asks for the word
func (b *QuizBuilder) BuildReverse(items []models.VocabularyItem) []models.ReverseQuizQuestion {
	items = b.shuffled(items)

	words := make([]string, 0, len(items))
	for i := range items {
		words = append(words, items[i].Word)
	}

	questions := make([]models.ReverseQuizQuestion, 0, len(items))
	for i := range items {
		item := &items[i]
		if !item.HasMeaning() {
			continue
		}
		questions = append(questions, models.ReverseQuizQuestion{
			VocabularyID:       item.ID,
			UserDefinedMeaning: item.DefinedMeaning(),
			PhoneticText:       item.PhoneticText,
			PartOfSpeech:       item.PartOfSpeech(),
			Options:            b.sampler.BuildOptions(words, item.Word, b.distractorCount),
			CorrectAnswer:      item.Word,
			UserImageBase64:    item.UserImageBase64,
		})
	}
	return questions
}

// BuildFlashcards returns every item in random order
func (b *QuizBuilder) BuildFlashcards(items []models.VocabularyItem) []models.VocabularyDetail {
	items = b.shuffled(items)
	details := make([]models.VocabularyDetail, 0, len(items))
	for _, item := range items {
		details = append(details, models.NewVocabularyDetail(item))
	}
	return details
}
