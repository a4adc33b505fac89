package services

import (
	"context"
	"strings"

	"lexiquiz/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// CompletenessChecker treats a text as a sentence when, after contractions are
// expanded, at least one token carries a verb tag.
type CompletenessChecker struct {
	normalizer *ContractionNormalizer
	tagger     POSTagger
}

// NewCompletenessChecker builds a checker over the given tagger
func NewCompletenessChecker(normalizer *ContractionNormalizer, tagger POSTagger) *CompletenessChecker {
	return &CompletenessChecker{normalizer: normalizer, tagger: tagger}
}

// IsComplete reports whether text contains a verb. Blank text is never complete.
func (c *CompletenessChecker) IsComplete(ctx context.Context, text string) (result bool, err error) {
	_, span := observability.TraceValidationFunction(ctx, "is_complete",
		attribute.Int("text.length", len(text)),
	)
	defer observability.FinishSpan(span, &err)

	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	tokens, err := c.tagger.Tag(c.normalizer.Normalize(text))
	if err != nil {
		return false, err
	}

	for _, tok := range tokens {
		if strings.HasPrefix(tok.Tag, "VB") {
			span.SetAttributes(attribute.String("verb", tok.Text))
			return true, nil
		}
	}
	return false, nil
}
