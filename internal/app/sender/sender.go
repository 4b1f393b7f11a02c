// Package sender собирает приложение отправки писем: подключение к брокеру
// и потребители очередей уведомлений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sos-alert/internal/config"
	"github.com/magabrotheeeer/sos-alert/internal/lib/smtp"
	"github.com/magabrotheeeer/sos-alert/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/sos-alert/internal/services/sender"
)

// App хранит подключение к брокеру и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и готовит сервис отправки писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(cfg.SMTP, logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.EmailVerificationQueue, a.senderService.SendVerificationEmail)
	if err != nil {
		a.logger.Error("failed to start email verification consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.PasswordResetQueue, a.senderService.SendPasswordResetEmail)
	if err != nil {
		a.logger.Error("failed to start password reset consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.SOSAlertQueue, a.senderService.SendSOSAlertCopy)
	if err != nil {
		a.logger.Error("failed to start sos alert consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
