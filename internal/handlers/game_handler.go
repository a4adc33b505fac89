package handlers

import (
	"net/http"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"
	contextutils "lexiquiz/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GameHandler serves the /v1/games endpoints
type GameHandler struct {
	engine    services.SessionEngineInterface
	validator services.SentenceValidatorInterface
	reading   services.ReadingContentServiceInterface
	logger    *observability.Logger
}

// NewGameHandler creates a new GameHandler instance
func NewGameHandler(
	engine services.SessionEngineInterface,
	validator services.SentenceValidatorInterface,
	reading services.ReadingContentServiceInterface,
	logger *observability.Logger,
) *GameHandler {
	return &GameHandler{
		engine:    engine,
		validator: validator,
		reading:   reading,
		logger:    logger,
	}
}

// bindJSON decodes and validates the request body, writing a 400 on failure
func bindJSON(c *gin.Context, logger *observability.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn(c.Request.Context(), "Invalid request format", map[string]interface{}{"error": err.Error()})
		HandleAppError(c, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeInvalidInput, contextutils.SeverityWarn, "Invalid request format", err.Error(), err))
		return false
	}
	if err := contextutils.ValidateStruct(req); err != nil {
		logger.Warn(c.Request.Context(), "Request validation failed", map[string]interface{}{"error": err.Error()})
		HandleAppError(c, err)
		return false
	}
	return true
}

// StartGame handles POST /v1/games/start
func (h *GameHandler) StartGame(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "start_game")
	defer observability.FinishSpan(span, nil)

	var req models.GameStartRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	span.SetAttributes(
		observability.AttributeUserID(req.UserID),
		observability.AttributeFolderID(req.FolderID),
		observability.AttributeGameType(req.GameType),
		attribute.String("game.sub_type", req.SubType),
	)

	session, err := h.engine.Start(ctx, services.StartRequest{
		UserID:   req.UserID,
		FolderID: req.FolderID,
		GameType: req.GameType,
		SubType:  req.SubType,
	})
	if err != nil {
		h.logger.Warn(ctx, "Failed to start game", map[string]interface{}{
			"user_id":   req.UserID,
			"folder_id": req.FolderID,
			"game_type": req.GameType,
			"error":     err.Error(),
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// RetryWrong handles POST /v1/games/retry-wrong
func (h *GameHandler) RetryWrong(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "retry_wrong")
	defer observability.FinishSpan(span, nil)

	var req models.GameRetryRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	span.SetAttributes(observability.AttributeSessionID(req.GameResultID))

	session, err := h.engine.Retry(ctx, req.GameResultID)
	if err != nil {
		h.logger.Warn(ctx, "Failed to retry wrong answers", map[string]interface{}{
			"game_result_id": req.GameResultID,
			"error":          err.Error(),
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CheckSentence handles POST /v1/games/check-sentence
func (h *GameHandler) CheckSentence(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "check_sentence")
	defer observability.FinishSpan(span, nil)

	var req models.SentenceCheckRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	span.SetAttributes(
		attribute.Int64("vocabulary.id", req.VocabularyID),
		attribute.Int("sentence.length", len(req.UserAnswer)),
	)

	result, err := h.validator.CheckVocabularySentence(ctx, req.VocabularyID, req.UserAnswer)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateReading handles POST /v1/games/generate-reading
func (h *GameHandler) GenerateReading(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "generate_reading")
	defer observability.FinishSpan(span, nil)

	var req models.ReadingRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	span.SetAttributes(
		observability.AttributeFolderID(req.FolderID),
		observability.AttributeLevel(req.Level),
		observability.AttributeTopic(req.Topic),
	)

	content, err := h.reading.GetOrGenerate(ctx, req.FolderID, req.Level, req.Topic)
	if err != nil {
		h.logger.Error(ctx, "Failed to get reading content", err, map[string]interface{}{
			"folder_id": req.FolderID,
			"level":     req.Level,
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}
