package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"lexiquiz/internal/config"
	"lexiquiz/internal/middleware"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"
	"lexiquiz/internal/version"
)

// NewRouter creates the gin engine with middleware and all API routes
func NewRouter(
	cfg *config.Config,
	engine services.SessionEngineInterface,
	validator services.SentenceValidatorInterface,
	reading services.ReadingContentServiceInterface,
	logger *observability.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(middleware.ErrorRecovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogging(logger))

	// Health check endpoint (defined before tracing so health checks stay out of traces)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.OpenTelemetry.ServiceName})
	})

	router.Use(observability.GinMiddlewareWithErrorHandling(cfg.OpenTelemetry.ServiceName)...)
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.IsDevelopment = cfg.Server.Debug
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	gameHandler := NewGameHandler(engine, validator, reading, logger)
	gameResultHandler := NewGameResultHandler(engine, logger)

	v1 := router.Group("/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, version.Info(cfg.OpenTelemetry.ServiceName))
		})

		games := v1.Group("/games")
		{
			games.POST("/start", gameHandler.StartGame)
			games.POST("/retry-wrong", gameHandler.RetryWrong)
			games.POST("/check-sentence", gameHandler.CheckSentence)
			games.POST("/generate-reading", gameHandler.GenerateReading)
		}

		results := v1.Group("/game-results")
		{
			results.PUT("/:id", gameResultHandler.UpdateGameResult)
			results.GET("/wrong/:userId", gameResultHandler.ListWrongAnswers)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		StandardizeHTTPError(c, http.StatusNotFound, "Not found", c.Request.URL.Path)
	})

	return router
}
