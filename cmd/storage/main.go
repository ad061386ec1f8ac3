package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/awthompson/quill/blog/application"
	"github.com/awthompson/quill/blog/persistence"
	"github.com/awthompson/quill/internal/middleware"
	"github.com/awthompson/quill/internal/rest"
	"github.com/awthompson/quill/shared/config"
	"github.com/awthompson/quill/shared/db/sqlite"
	"github.com/awthompson/quill/shared/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var cfg config.Storage
	if err := config.Load(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup("storage", cfg.LogLevel)

	// Initialize dependencies
	database := sqlite.NewSQLiteDB(cfg.DBPath)
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	images, err := persistence.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	postRepo := persistence.NewPostRepository(database.DB())
	postService := application.NewPostService(postRepo, images)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Static("/uploads", cfg.UploadDir)

	rest.NewApi(router, rest.NewPostsHandler(postService))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting storage service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down storage service...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Storage service stopped")
}
