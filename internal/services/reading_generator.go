package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"lexiquiz/internal/config"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/cenkalti/backoff/v5"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// readingContentSchema describes the JSON object the model must return
const readingContentSchema = `{
  "type": "object",
  "required": ["story", "questions"],
  "properties": {
    "story": {"type": "string", "minLength": 1},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "options", "answer"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 3,
            "maxItems": 3,
            "items": {"type": "string", "minLength": 1}
          },
          "answer": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// OpenAIRequest is a chat completions request body
type OpenAIRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat asks the provider for a particular output format
type ResponseFormat struct {
	Type string `json:"type"`
}

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIResponse is the part of a chat completions response we read
type OpenAIResponse struct {
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice is one completion candidate
type Choice struct {
	Message Message `json:"message"`
}

// APIError is the error object some providers return alongside a 200
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ReadingGenerator asks an OpenAI-compatible model for a story with comprehension questions
type ReadingGenerator struct {
	cfg        config.GenerationConfig
	templates  *ReadingTemplateManager
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *observability.Logger
}

// NewReadingGenerator creates a generator. metrics may be nil.
func NewReadingGenerator(cfg config.GenerationConfig, metrics *observability.Metrics, logger *observability.Logger) (*ReadingGenerator, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrAIConfigInvalid, "generation url is not configured")
	}

	templates, err := NewReadingTemplateManager()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.AIRequestTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = config.DefaultGenerationAttempts
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultGenerationModel
	}

	return &ReadingGenerator{
		cfg:       cfg,
		templates: templates,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
			),
		},
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Generate returns a validated story for words. After the configured number of
// failed attempts it returns ErrGenerationUnavailable.
func (g *ReadingGenerator) Generate(ctx context.Context, words []string, level int, topic string) (result *models.ReadingContent, err error) {
	ctx, span := observability.TraceAIFunction(ctx, "generate_reading",
		observability.AttributeLevel(level),
		observability.AttributeTopic(topic),
		attribute.Int("reading.word_count", len(words)),
		attribute.String("ai.model", g.cfg.Model),
	)
	defer observability.FinishSpan(span, &err)

	prompt, err := g.templates.RenderPrompt(words, level, topic)
	if err != nil {
		return nil, err
	}

	attempt := 0
	content, err := backoff.Retry(ctx, func() (*models.ReadingContent, error) {
		attempt++
		content, err := g.attempt(ctx, prompt)
		if err != nil {
			g.logger.Warn(ctx, "Reading generation attempt failed", map[string]interface{}{
				"attempt":      attempt,
				"max_attempts": g.cfg.MaxAttempts,
				"error":        err.Error(),
			})
			return nil, err
		}
		return content, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(g.cfg.RetryDelay)),
		backoff.WithMaxTries(uint(g.cfg.MaxAttempts)),
	)
	span.SetAttributes(attribute.Int("ai.attempts", attempt))
	if err != nil {
		return nil, contextutils.WithCause(contextutils.ErrGenerationUnavailable, err)
	}
	return content, nil
}

func (g *ReadingGenerator) attempt(ctx context.Context, prompt string) (*models.ReadingContent, error) {
	raw, err := g.callModel(ctx, prompt)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrAIResponseInvalid) {
			g.metrics.RecordGenerationAttempt(ctx, "invalid_response")
		} else {
			g.metrics.RecordGenerationAttempt(ctx, "request_failed")
		}
		return nil, err
	}

	content, err := parseReadingContent(raw)
	if err != nil {
		g.metrics.RecordGenerationAttempt(ctx, "invalid_content")
		return nil, err
	}

	g.metrics.RecordGenerationAttempt(ctx, "success")
	return content, nil
}

// callModel sends prompt and returns the content of the first choice
func (g *ReadingGenerator) callModel(ctx context.Context, prompt string) (result0 string, err error) {
	ctx, span := observability.TraceAIFunction(ctx, "call_model",
		attribute.String("ai.model", g.cfg.Model),
		attribute.Int("prompt.length", len(prompt)),
	)
	defer observability.FinishSpan(span, &err)

	reqBody := OpenAIRequest{
		Model:          g.cfg.Model,
		Messages:       []Message{{Role: "user", Content: prompt}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", contextutils.WrapError(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", contextutils.WrapError(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lexiquiz/1.0")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", contextutils.WrapErrorf(contextutils.ErrAIRequestFailed, "request to %s failed: %v", g.cfg.URL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.logger.Warn(ctx, "Failed to close response body", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", contextutils.WrapErrorf(contextutils.ErrAIRequestFailed, "failed to read response: %v", err)
	}
	span.SetAttributes(
		attribute.Int("status_code", resp.StatusCode),
		attribute.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", contextutils.WrapErrorf(contextutils.ErrAIRequestFailed, "API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed OpenAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "failed to parse response: %v", err)
	}
	if parsed.Error != nil {
		return "", contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "API error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", contextutils.WrapError(contextutils.ErrAIResponseInvalid, "no content in response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseReadingContent checks raw against the reading schema and that every answer is one of its options
func parseReadingContent(raw string) (*models.ReadingContent, error) {
	raw = strings.TrimSpace(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(readingContentSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "content is not valid JSON: %v", err)
	}
	if !result.Valid() {
		var messages []string
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return nil, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "content failed schema validation: %s", strings.Join(messages, "; "))
	}

	var content models.ReadingContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "failed to decode content: %v", err)
	}

	for i, q := range content.Questions {
		if !slices.Contains(q.Options, q.Answer) {
			return nil, contextutils.WrapErrorf(contextutils.ErrAIResponseInvalid, "question %d answer %q is not one of its options", i+1, q.Answer)
		}
	}
	return &content, nil
}
