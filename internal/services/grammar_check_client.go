package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lexiquiz/internal/config"
	"lexiquiz/internal/observability"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GrammarUnavailableMessage is returned as the only issue when the grammar service cannot be reached
const GrammarUnavailableMessage = "Grammar check is unavailable at this time."

type languageToolResponse struct {
	Matches []struct {
		Message string `json:"message"`
	} `json:"matches"`
}

// GrammarCheckClient queries a LanguageTool compatible /v2/check endpoint
type GrammarCheckClient struct {
	cfg        config.GrammarConfig
	httpClient *http.Client
	logger     *observability.Logger
}

// NewGrammarCheckClient creates a client with an instrumented transport
func NewGrammarCheckClient(cfg config.GrammarConfig, logger *observability.Logger) *GrammarCheckClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.GrammarRequestTimeout
	}
	return &GrammarCheckClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
			),
		},
		logger: logger,
	}
}

// Check returns the messages of every match LanguageTool reports, in order.
// Any failure yields the single GrammarUnavailableMessage.
func (c *GrammarCheckClient) Check(ctx context.Context, sentence string) []string {
	ctx, span := observability.TraceValidationFunction(ctx, "grammar_check",
		attribute.Int("text.length", len(sentence)),
		attribute.String("grammar.language", c.cfg.Language),
	)
	defer span.End()

	messages, err := c.fetch(ctx, sentence)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("grammar.result", "unavailable"))
		c.logger.Warn(ctx, "Grammar service call failed", map[string]interface{}{
			"error": err.Error(),
			"url":   c.cfg.URL,
		})
		return []string{GrammarUnavailableMessage}
	}

	span.SetAttributes(attribute.Int("grammar.matches", len(messages)))
	return messages
}

func (c *GrammarCheckClient) fetch(ctx context.Context, sentence string) ([]string, error) {
	endpoint, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar url: %w", err)
	}

	params := endpoint.Query()
	params.Set("text", sentence)
	params.Set("language", c.cfg.Language)
	if len(c.cfg.DisabledRules) > 0 {
		params.Set("disabledRules", strings.Join(c.cfg.DisabledRules, ","))
	}
	if c.cfg.Level != "" {
		params.Set("level", c.cfg.Level)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lexiquiz/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("grammar service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed languageToolResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode grammar response: %w", err)
	}

	messages := make([]string, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		messages = append(messages, m.Message)
	}
	return messages, nil
}
