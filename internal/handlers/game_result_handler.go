package handlers

import (
	"net/http"
	"strconv"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GameResultHandler serves the /v1/game-results endpoints
type GameResultHandler struct {
	engine services.SessionEngineInterface
	logger *observability.Logger
}

// NewGameResultHandler creates a new GameResultHandler instance
func NewGameResultHandler(engine services.SessionEngineInterface, logger *observability.Logger) *GameResultHandler {
	return &GameResultHandler{engine: engine, logger: logger}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		HandleValidationError(c, name, raw, "must be a positive integer")
		return 0, false
	}
	return id, true
}

// UpdateGameResult handles PUT /v1/game-results/:id
func (h *GameResultHandler) UpdateGameResult(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "update_game_result")
	defer observability.FinishSpan(span, nil)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.GameResultUpdateRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	span.SetAttributes(
		observability.AttributeSessionID(id),
		attribute.Int("game.correct", req.CorrectCount),
		attribute.Int("game.wrong", req.WrongCount),
	)

	record, err := h.engine.RecordOutcome(ctx, id, req.CorrectCount, req.WrongCount, req.WrongAnswers)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListWrongAnswers handles GET /v1/game-results/wrong/:userId
func (h *GameResultHandler) ListWrongAnswers(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "list_wrong_answers")
	defer observability.FinishSpan(span, nil)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	span.SetAttributes(observability.AttributeUserID(userID))

	records, err := h.engine.ListWithWrongAnswers(ctx, userID)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
