package main

import (
	"strings"

	"github.com/amaumene/cinescope/internal/config"
	"github.com/amaumene/cinescope/internal/handlers"
	"github.com/amaumene/cinescope/internal/services"
	"github.com/amaumene/cinescope/pkg/logger"
)

var (
	Logger           logger.Logger
	cfg              *config.Config
	handler          *handlers.Handler
	serviceContainer *services.Container
)

func InitializeLogger(level string) {
	Logger = logger.NewWithLevel(logger.ParseLevel(level))

	// Log level validation (for user feedback)
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		Logger.Warnf("[App] warning: unknown log level '%s', defaulting to info", level)
	}
}

func InitializeConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		// the logger is not configured yet
		logger.New().Fatalf("[App] invalid configuration: %v", err)
	}
}

func InitializeServices() {
	var err error
	serviceContainer, err = services.NewContainer(cfg, Logger)
	if err != nil {
		Logger.Fatalf("[App] %v", err)
	}

	handler = handlers.New(serviceContainer, cfg)
}
