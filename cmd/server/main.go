package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"

	"subtrack/internal/config"
	"subtrack/internal/entitlement"
	httpGateway "subtrack/internal/gateways/http"
	"subtrack/internal/notify"
	prefsRepository "subtrack/internal/repository/prefs/file"
	subsRepository "subtrack/internal/repository/subscription/file"
	"subtrack/internal/usecase"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()
	log := setupLogger(cfg.Env)

	log.Info("starting subtrack", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	sr, err := subsRepository.NewRepository(cfg.Storage.SubscriptionsPath())
	if err != nil {
		log.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	pr, err := prefsRepository.New(cfg.Storage.PreferencesPath())
	if err != nil {
		log.Error("failed to init preferences", slog.Any("error", err))
		os.Exit(1)
	}

	center := notify.NewMemoryCenter()
	scheduler := notify.NewScheduler(center, log)
	scheduler.RefreshAuthorization(ctx)

	gate := entitlement.NewGate(entitlement.NoopProvider{}, pr, log)
	if err := gate.RefreshEntitlements(ctx); err != nil {
		log.Warn("refreshing entitlements failed", slog.Any("error", err))
	}
	go gate.Run(ctx)

	store := usecase.NewStore(ctx, sr, pr, scheduler, gate, log)
	store.ScheduleAll(ctx)

	useCases := httpGateway.UseCases{
		Store:     store,
		Gate:      gate,
		Scheduler: scheduler,
		Export:    cfg.Export,
	}

	server := httpGateway.New(useCases,
		*cfg,
		log,
		httpGateway.WithHost(cfg.Server.Host),
		httpGateway.WithPort(uint16(cfg.Server.Port)),
		httpGateway.WithLogger(log),
		httpGateway.WithTimeout(cfg.Server.Timeout),
	)

	log.Info("starting server", slog.String("address", cfg.Server.Host+":"+strconv.Itoa(cfg.Server.Port)))
	if err := server.Run(ctx); err != nil {
		log.Error(err.Error())
		return
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch strings.ToLower(env) {
	case envLocal:
		log = slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}
