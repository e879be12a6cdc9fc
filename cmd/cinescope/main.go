package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/constants"
	"github.com/amaumene/cinescope/internal/middleware"
)

func main() {
	InitializeConfig()
	InitializeLogger(cfg.LogLevel)
	InitializeServices()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())

	handler.RegisterRoutes(r)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	serviceContainer.Cleanup.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		Logger.Infof("[App] %s %s listening on %s", constants.AppName, constants.AppVersion, cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Fatalf("[App] failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	Logger.Infof("[App] shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Logger.Errorf("[App] server forced to shutdown: %v", err)
	}

	if err := serviceContainer.Close(); err != nil {
		Logger.Errorf("[App] failed to close services: %v", err)
	}
	Logger.Infof("[App] server exited")
}
