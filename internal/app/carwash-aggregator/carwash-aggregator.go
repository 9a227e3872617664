// Package carwashaggregator собирает зависимости HTTP-сервиса автомойки:
// хранилище, миграции, кеш, брокер событий и маршруты.
package carwashaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/carwash-aggregator/internal/cache"
	"github.com/magabrotheeeer/carwash-aggregator/internal/config"
	"github.com/magabrotheeeer/carwash-aggregator/internal/engine/clock"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/carwash-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carwash-aggregator/internal/migrations"
	authservice "github.com/magabrotheeeer/carwash-aggregator/internal/services/auth"
	slotservice "github.com/magabrotheeeer/carwash-aggregator/internal/services/slots"
	services "github.com/magabrotheeeer/carwash-aggregator/internal/services/subscription"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"

	"github.com/streadway/amqp"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	amqpConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetEventQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewEventPublisher(ch)

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	clk := clock.System()

	subscriptionService := services.NewSubscriptionService(
		db, cacheRedis, publisher, clk, logger, cfg.ServicesPerSubscription)
	slotService := slotservice.NewSlotService(db, clk, logger, cfg.SlotBufferMinutes)
	authService := authservice.New(db, maker, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, db, subscriptionService, slotService, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		return err
	}
}
