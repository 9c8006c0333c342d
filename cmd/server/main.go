package main

import (
	"Reisekarte/internal/config"
	"Reisekarte/internal/handlers"
	"Reisekarte/internal/middleware"
	"Reisekarte/internal/repo"
	"Reisekarte/internal/service"
	"Reisekarte/internal/session"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	locationRepo := repo.NewLocationRepository(gormDB)
	locationService := service.NewLocationService(locationRepo, sugar)

	sessionStore := session.NewMemoryStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	authService, err := service.NewAuthService(sessionStore, cfg.AccessCode, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize auth", "error", err)
	}

	// старые строки без миниатюр дополняем на старте
	if n, err := locationService.BackfillThumbnails(ctx); err != nil {
		sugar.Warnw("thumbnail backfill failed", "error", err)
	} else if n > 0 {
		sugar.Infow("thumbnail backfill done", "generated", n)
	}

	h := handlers.NewHandler(locationService, authService, sessionStore, sugar, cfg)

	addr := ":" + cfg.Port

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"Port", cfg.Port,
		"MaxUploadMB", cfg.MaxUploadMB,
		"SessionTTLHours", cfg.SessionTTLHours,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
