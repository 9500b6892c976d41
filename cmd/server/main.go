package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/satwikkini-01/Sahaay/internal/config"
	"github.com/satwikkini-01/Sahaay/internal/db"
	"github.com/satwikkini-01/Sahaay/internal/grouping"
	httpapi "github.com/satwikkini-01/Sahaay/internal/http"
	"github.com/satwikkini-01/Sahaay/internal/metrics"
	"github.com/satwikkini-01/Sahaay/internal/service"
	"github.com/satwikkini-01/Sahaay/internal/sla"
	"github.com/satwikkini-01/Sahaay/internal/triage"
	"github.com/satwikkini-01/Sahaay/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "sahaay-backend").Logger()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal().Err(err).Msg("failed to register metrics")
	}

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var provider weather.Provider
	if cfg.WeatherAPIKey == "" {
		provider = weather.Disabled{}
		logger.Info().Msg("weather provider disabled (no API key)")
	} else {
		provider = &weather.OpenWeatherProvider{BaseURL: cfg.WeatherBaseURL, APIKey: cfg.WeatherAPIKey}
	}
	adjuster := weather.NewAdjuster(provider, cfg.WeatherTTL, logger)

	classifier := triage.NewClassifier()
	classifier.Train(triage.DefaultTrainingData)
	aggregator := triage.NewAggregator(classifier, adjuster, logger)

	grouper := grouping.New(store, cfg.GroupingRadiusKm, logger)
	intake := service.NewIntake(store, aggregator, grouper, logger)

	thresholds := sla.DefaultThresholds()
	thresholds.WarningWindow = time.Duration(cfg.SLAWarningHours) * time.Hour
	engine := sla.NewEngine(store, thresholds, logger)
	predictor := sla.NewPredictor(store)

	scheduler := sla.NewScheduler(engine, cfg.SLASweepInterval, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start SLA scheduler")
	}
	defer scheduler.Stop()

	router := httpapi.Router(cfg, store, intake, engine, predictor, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
