package service

import (
	"context"
	"errors"
	"fmt"
	"ticketing/app"
	"ticketing/attendance"
	"ticketing/auth"
	"ticketing/config"
	"ticketing/db"
	"ticketing/http"
	"ticketing/message"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	httpAddr        string
	shutdownTimeout time.Duration

	httpRouter *echo.Echo
	seed       func(ctx context.Context) error

	// Set only when the lifecycle event pipeline is enabled.
	msgRouter *message.Router
	forwarder *message.Forwarder
}

// New wires the service. redisClient may be nil, in which case lifecycle
// events are dropped and attendance is not tracked.
func New(
	cfg config.Config,
	logger watermill.LoggerAdapter,
	dbConn *sqlx.DB,
	redisClient *redis.Client,
) (*Service, error) {
	s := &Service{
		httpAddr:        cfg.HTTPAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	var (
		publisher       app.Publisher = message.NopPublisher{}
		attendanceStore app.AttendanceReader
	)

	if redisClient != nil {
		fwd, err := message.NewForwarder(dbConn, redisClient, logger)
		if err != nil {
			return nil, fmt.Errorf("creating forwarder: %w", err)
		}

		store := attendance.NewStore(redisClient)
		msgRouter, err := message.NewRouter(message.RouterDeps{
			Attendance:  store,
			Logger:      logger,
			RedisClient: redisClient,
		})
		if err != nil {
			return nil, fmt.Errorf("creating message router: %w", err)
		}

		s.forwarder = fwd
		s.msgRouter = msgRouter
		publisher = db.NewOutboxPublisher(logger)
		attendanceStore = store
	}

	transactor := db.NewTransactor(dbConn)
	userRepo := db.NewUserRepo(dbConn)
	eventRepo := db.NewEventRepo(dbConn)
	ticketRepo := db.NewTicketRepo(dbConn)

	authService := app.NewAuthService(
		transactor,
		userRepo,
		auth.NewPasswords(cfg.BcryptCost),
		auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
	)

	eventService := app.NewEventService(transactor, eventRepo, publisher, attendanceStore)
	if cfg.SeedDemoData {
		s.seed = func(ctx context.Context) error {
			return app.SeedDemoData(ctx, authService, eventService)
		}
	}

	s.httpRouter = http.NewRouter(http.RouterConfig{
		Auth:              authService,
		Events:            eventService,
		Tickets:           app.NewTicketService(transactor, userRepo, eventRepo, ticketRepo, publisher),
		AttendanceEnabled: attendanceStore != nil,
	})

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	if s.seed != nil {
		if err := s.seed(ctx); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	g, runCtx := errgroup.WithContext(ctx)

	if s.forwarder != nil {
		g.Go(func() error {
			if err := s.forwarder.Run(runCtx); err != nil {
				return fmt.Errorf("running forwarder: %w", err)
			}

			return nil
		})
	}

	if s.msgRouter != nil {
		g.Go(func() error {
			if err := s.msgRouter.Run(runCtx); err != nil {
				return fmt.Errorf("running messaging router: %w", err)
			}

			return nil
		})
	}

	g.Go(func() error {
		if s.msgRouter != nil {
			// Wait for message router
			select {
			case <-s.msgRouter.Running():
			case <-runCtx.Done():
				return nil
			}
		}

		logrus.WithField("addr", s.httpAddr).Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
