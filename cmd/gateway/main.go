package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/awthompson/quill/gateway/client"
	"github.com/awthompson/quill/gateway/web"
	"github.com/awthompson/quill/internal/middleware"
	"github.com/awthompson/quill/shared/config"
	"github.com/awthompson/quill/shared/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var cfg config.Gateway
	if err := config.Load(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup("gateway", cfg.LogLevel)

	// The timeout bounds how long a hung storage service can hold up a
	// browser request.
	storageClient := client.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.UpstreamTimeout})

	handler, err := web.NewHandler(storageClient, cfg.APIBaseURL, cfg.StagingDir, cfg.PublicDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize gateway handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting gateway")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down gateway...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Gateway stopped")
}
