package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/eireweather/met-warnings-service/internal/adapter/http"
	kafkaadapter "github.com/eireweather/met-warnings-service/internal/adapter/kafka"
	"github.com/eireweather/met-warnings-service/internal/config"
	"github.com/eireweather/met-warnings-service/internal/feed"
	"github.com/eireweather/met-warnings-service/internal/observability"
	"github.com/eireweather/met-warnings-service/internal/pipeline"
	"github.com/eireweather/met-warnings-service/internal/scheduler"
	"github.com/eireweather/met-warnings-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	for _, g := range cfg.AreaGroups {
		logger.Info("area group configured", "group", g.Name, "all_ireland", g.MatchAll(), "counties", g.Counties())
	}

	states := store.NewMemoryStore()
	client := feed.NewClient(cfg.APIURL, cfg.FetchTimeout, metrics, logger)

	// State publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPublisher
		logger.Info("kafka state publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka state publishing disabled")
	}

	refresher := pipeline.New(client, cfg.AreaGroups, states, publisher, logger, metrics)

	// A cycle gets the fetch timeout plus headroom for derivation and
	// publishing before it is abandoned.
	sched := scheduler.New(refresher, cfg.PollInterval, cfg.FetchTimeout+30*time.Second, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, states, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("failed to start poll scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sched.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
