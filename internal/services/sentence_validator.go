package services

import (
	"context"
	"fmt"
	"strings"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// Feedback messages returned to learners
const (
	FeedbackMissingKeyword = "Your sentence must contain the keyword '%s'."
	FeedbackIncomplete     = "This does not appear to be a complete sentence. A sentence needs a verb."
	FeedbackGrammarIssue   = "The sentence looks structurally fine, but it still has grammar issues. Suggestion: "
	FeedbackPassed         = "Great! Your sentence is very good."
)

// SentenceValidator checks a learner's sentence in three stages: keyword,
// completeness, grammar. The first failing stage decides the feedback.
type SentenceValidator struct {
	completeness CompletenessVerifier
	grammar      GrammarChecker
	vocabulary   VocabularyStore
	metrics      *observability.Metrics
	logger       *observability.Logger
}

// NewSentenceValidator wires the validator. metrics may be nil.
func NewSentenceValidator(
	completeness CompletenessVerifier,
	grammar GrammarChecker,
	vocabulary VocabularyStore,
	metrics *observability.Metrics,
	logger *observability.Logger,
) *SentenceValidator {
	return &SentenceValidator{
		completeness: completeness,
		grammar:      grammar,
		vocabulary:   vocabulary,
		metrics:      metrics,
		logger:       logger,
	}
}

// Validate runs the pipeline. It never fails: infrastructure problems surface as feedback.
func (v *SentenceValidator) Validate(ctx context.Context, sentence, keyword string) *models.SentenceCheckResult {
	ctx, span := observability.TraceValidationFunction(ctx, "validate_sentence",
		observability.AttributeKeyword(keyword),
		attribute.Int("text.length", len(sentence)),
	)
	defer span.End()

	result := v.validate(ctx, sentence, keyword)

	span.SetAttributes(
		attribute.String("validation.stage", result.Stage),
		attribute.Bool("validation.correct", result.IsCorrect),
	)
	v.metrics.RecordSentenceCheck(ctx, result.Stage, result.IsCorrect)
	return result
}

func (v *SentenceValidator) validate(ctx context.Context, sentence, keyword string) *models.SentenceCheckResult {
	if !strings.Contains(strings.ToLower(sentence), strings.ToLower(keyword)) {
		return &models.SentenceCheckResult{
			Feedback: fmt.Sprintf(FeedbackMissingKeyword, keyword),
			Stage:    models.StageKeyword,
		}
	}

	complete, err := v.completeness.IsComplete(ctx, sentence)
	if err != nil {
		v.logger.Warn(ctx, "Completeness check failed, treating sentence as incomplete", map[string]interface{}{
			"error": err.Error(),
		})
		complete = false
	}
	if !complete {
		return &models.SentenceCheckResult{
			Feedback: FeedbackIncomplete,
			Stage:    models.StageCompleteness,
		}
	}

	if issues := v.grammar.Check(ctx, sentence); len(issues) > 0 {
		return &models.SentenceCheckResult{
			Feedback: FeedbackGrammarIssue + issues[0],
			Stage:    models.StageGrammar,
		}
	}

	return &models.SentenceCheckResult{
		IsCorrect: true,
		Feedback:  FeedbackPassed,
		Stage:     models.StagePassed,
	}
}

// CheckVocabularySentence validates sentence using the word of the given vocabulary item as keyword
func (v *SentenceValidator) CheckVocabularySentence(ctx context.Context, vocabularyID int64, sentence string) (result *models.SentenceCheckResult, err error) {
	ctx, span := observability.TraceValidationFunction(ctx, "check_vocabulary_sentence",
		attribute.Int64("vocabulary.id", vocabularyID),
	)
	defer observability.FinishSpan(span, &err)

	item, err := v.vocabulary.FindByID(ctx, vocabularyID)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to load vocabulary %d", vocabularyID)
	}
	if item == nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrVocabularyNotFound, "vocabulary %d not found", vocabularyID)
	}

	return v.Validate(ctx, sentence, item.Word), nil
}
