package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gopenguins/internal"
	"gopenguins/internal/config"
	"gopenguins/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.WithComponent("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	dashboard, err := appContainer.UI()
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: dashboard.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed: %v", err)
		}
	}()

	logger.Info("serving on http://localhost:%s (API under /api/v1, metrics at /metrics)", appConfig.Server.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
