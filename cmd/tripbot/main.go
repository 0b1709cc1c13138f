package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tazhate/tripbot/config"
	"github.com/tazhate/tripbot/internal/api"
	"github.com/tazhate/tripbot/internal/bot"
	"github.com/tazhate/tripbot/internal/clients/caldav"
	"github.com/tazhate/tripbot/internal/clients/gemini"
	"github.com/tazhate/tripbot/internal/obs"
	"github.com/tazhate/tripbot/internal/scheduler"
	"github.com/tazhate/tripbot/internal/service"
	"github.com/tazhate/tripbot/internal/storage"
	"github.com/tazhate/tripbot/internal/tripdata"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := obs.NewLogger(obs.LogConfig{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		App:    "tripbot",
		Env:    cfg.AppEnv,
		Ver:    version,
	})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	otel, err := obs.SetupOTel(ctx, obs.OTELConfig{
		Enable:      cfg.OTELEnable,
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: "tripbot",
		SampleRatio: cfg.OTELSampleRatio,
	})
	if err != nil {
		logger.Fatal("init otel", zap.Error(err))
	}

	store, err := storage.New(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("init storage", zap.Error(err))
	}

	// Services
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
	caldavClient.SetCalendarPath(cfg.CalDAVCalendar)
	if !cfg.CalDAVEnabled() {
		logger.Info("CalDAV credentials not set, calendar sync disabled")
	}

	reminderSvc := service.NewReminderService(store, cfg.Timezone, logger)
	assistantSvc := service.NewAssistantService(geminiClient, tripdata.Itinerary, cfg.Timezone, logger)
	var rates service.RateSource
	if assistantSvc.Enabled() {
		rates = assistantSvc
		logger.Info("assistant enabled", zap.String("model", geminiClient.Model()))
	}
	svc := service.Services{
		Reminders:     reminderSvc,
		Permission:    service.NewPermissionService(store, cfg.TelegramEnabled(), logger),
		Luggage:       service.NewLuggageService(store, tripdata.Luggage, logger),
		Itinerary:     service.NewItineraryService(store, tripdata.Itinerary, logger),
		TripItems:     service.NewTripItemService(store, logger),
		Currency:      service.NewCurrencyService(cfg.BRLToCLPRate, rates, logger),
		Assistant:     assistantSvc,
		Calendar:      service.NewCalendarService(reminderSvc, caldavClient, cfg.Timezone, logger),
		LuggageData:   tripdata.Luggage,
		ItineraryData: tripdata.Itinerary,
	}

	reg := obs.NewRegistry()
	sched := scheduler.New(reminderSvc, svc.Permission, cfg.CheckInterval, cfg.Timezone, logger, reg)

	opts := []api.Option{api.WithMetrics(reg), api.WithHealth(store)}

	// Telegram is optional; without it notifications are unavailable
	var tgBot *bot.Bot
	if cfg.TelegramEnabled() {
		tgBot, err = bot.New(cfg, svc, logger)
		if err != nil {
			logger.Fatal("init bot", zap.Error(err))
		}
		sched.SetSender(tgBot)
		if tgBot.Webhook() {
			opts = append(opts, api.WithWebhook(tgBot.WebhookHandler()))
		}
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, notifications unavailable")
	}

	server := api.New(cfg, svc, logger, opts...)

	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				logger.Error(name+" stopped with error", zap.Error(err))
				cancel()
			}
		}()
	}

	run("scheduler", func() error { return sched.Start(ctx) })
	if tgBot != nil {
		run("bot", func() error { return tgBot.Start(ctx) })
	}
	run("http", func() error { return server.Start() })

	logger.Info("tripbot started", zap.String("version", version), zap.String("tz", cfg.Timezone.String()))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("stop http server", zap.Error(err))
	}
	// The scheduler has stopped ticking once wg is done, so storage can close
	wg.Wait()
	if tgBot != nil {
		tgBot.Wait()
	}

	if err := store.Close(); err != nil {
		logger.Error("close storage", zap.Error(err))
	}
	if err := otel.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown otel", zap.Error(err))
	}

	logger.Info("tripbot stopped")
}
