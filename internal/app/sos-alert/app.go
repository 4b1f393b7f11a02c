// Package sosalert собирает HTTP-приложение: хранилище, кеш, брокер,
// сервисы и маршруты.
package sosalert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sos-alert/internal/cache"
	"github.com/magabrotheeeer/sos-alert/internal/config"
	"github.com/magabrotheeeer/sos-alert/internal/lib/jwt"
	"github.com/magabrotheeeer/sos-alert/internal/lib/phone"
	librabbitmq "github.com/magabrotheeeer/sos-alert/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/sos-alert/internal/lib/sl"
	"github.com/magabrotheeeer/sos-alert/internal/migrations"
	"github.com/magabrotheeeer/sos-alert/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/sos-alert/internal/services/auth"
	contactservice "github.com/magabrotheeeer/sos-alert/internal/services/contact"
	profileservice "github.com/magabrotheeeer/sos-alert/internal/services/profile"
	sosservice "github.com/magabrotheeeer/sos-alert/internal/services/sos"
	"github.com/magabrotheeeer/sos-alert/internal/storage/repository"
)

// App хранит собранный HTTP-сервер и ресурсы для graceful shutdown.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует зависимости приложения и собирает маршруты.
//
// Брокер необязателен: при пустом rabbitmq_url письма не ставятся
// в очередь, а SOS-уведомления пишутся в лог.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var conn *amqp.Connection
	var ch *amqp.Channel
	var publisher authservice.Publisher
	notifier := sosservice.Notifier(sosservice.NewLogNotifier(logger))
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		queuePublisher := librabbitmq.NewQueuePublisher(ch, rabbitmq.Exchange)
		publisher = queuePublisher
		notifier = sosservice.NewQueueNotifier(queuePublisher)
	} else {
		logger.Warn("rabbitmq_url is empty, notifications are logged instead of queued")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.ActionTTL)
	phoneValidator, err := phone.NewValidator(cfg.Phone)
	if err != nil {
		return nil, err
	}

	authService := authservice.New(db, jwtMaker, publisher, logger)
	contactService := contactservice.New(db, phoneValidator, logger)
	sosService := sosservice.New(db, db, notifier, logger)
	profileService := profileservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db,
		authService, contactService, sosService, profileService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает сервер и останавливает его при отмене контекста.
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
		if a.ch != nil {
			if cerr := a.ch.Close(); cerr != nil {
				a.logger.Error("failed to close channel", sl.Err(cerr))
			}
		}
		if a.conn != nil {
			if cerr := a.conn.Close(); cerr != nil {
				a.logger.Error("failed to close connection", sl.Err(cerr))
			}
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
