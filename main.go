package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"ticketing/config"
	"ticketing/db"
	"ticketing/service"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log.Init(cfg.LogLevel)
	logger := watermill.NewStdLogger(false, false)

	if err := run(cfg, logger); err != nil {
		logrus.WithError(err).Error("failed to run")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger watermill.LoggerAdapter) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	dbConn, err := sqlx.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close db connection", err, nil)
		}
	}()

	var rdb *redis.Client
	if cfg.PipelineEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis connection", err, nil)
			}
		}()
	} else {
		logrus.Info("REDIS_ADDR not set, lifecycle events are disabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.InitialiseDB(ctx, dbConn); err != nil {
		return fmt.Errorf("initialising db: %w", err)
	}

	svc, err := service.New(cfg, logger, dbConn, rdb)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	return svc.Run(ctx)
}
