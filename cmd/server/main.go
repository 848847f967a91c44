package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tradenote/tradenote-api/internal/auth"
	"github.com/tradenote/tradenote-api/internal/database"
	"github.com/tradenote/tradenote-api/internal/notes"
	"github.com/tradenote/tradenote-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings.
// In development mode, it enables pretty printing with timestamps.
// Debug logging can be enabled via DEBUG environment variable.
func init() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the trade-note API server with graceful
// shutdown support.
func main() {
	db, err := database.NewDatabase(os.Getenv("DATABASE_PATH"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	router := gin.Default()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "tradenote-secret-key"
	}

	authService := auth.NewService(jwtSecret)
	authHandlers := auth.NewGinHandlers(authService)

	// Register API credentials from the environment, falling back to
	// the local development pair
	apiKey, apiSecret := os.Getenv("API_KEY"), os.Getenv("API_SECRET")
	if apiKey == "" || apiSecret == "" {
		apiKey, apiSecret = "test-api-key", "test-api-secret"
	}
	authService.RegisterAPICredentials(apiKey, apiSecret)

	notesService := notes.NewService(db)
	notesHandlers := notes.NewGinHandlers(notesService)

	// Re-extracts notes stored under an older pattern revision
	noteProcessor := notes.NewProcessor(notesService.GetDB())
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	go noteProcessor.Start(processorCtx)

	router.Use(middleware.RateLimit())

	setupRoutes(router, jwtSecret, authHandlers, notesHandlers)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers:
// - Auth routes: public endpoints for authentication
// - Note routes: transcript ingestion and retrieval, JWT protected
// - Extract route: stateless extraction preview, JWT protected
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	notesHandlers *notes.GinHandlers,
) {
	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		noteGroup := v1.Group("/notes")
		noteGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			noteGroup.POST("", notesHandlers.CreateNoteHandler())
			noteGroup.GET("", notesHandlers.ListNotesHandler())
			noteGroup.GET("/:note_id", notesHandlers.GetNoteHandler())
			noteGroup.GET("/:note_id/summary", notesHandlers.GetSummaryHandler())
		}

		extractGroup := v1.Group("/extract")
		extractGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			extractGroup.POST("", notesHandlers.PreviewHandler())
		}
	}
}
