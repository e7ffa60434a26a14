// Package main SubSight API
//
// @title           SubSight API
// @version         1.0
// @description     Учёт подписок, аналитика трат и напоминания о продлении.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// База часовых поясов для reminder.timezone.
	_ "time/tzdata"

	_ "github.com/harshpatel-22/subsight-backend/docs"
	"github.com/harshpatel-22/subsight-backend/internal/app/subsight"
	"github.com/harshpatel-22/subsight-backend/internal/config"
	"github.com/harshpatel-22/subsight-backend/internal/lib/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting subsight", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := subsight.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("subsight stopped gracefully")
}
