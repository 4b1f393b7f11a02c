package sos

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/sos-alert/internal/models"
)

// Publisher публикует сообщение в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// QueueNotifier кладёт уведомление в очередь sos_alert_queue,
// доставкой занимается notification-sender.
type QueueNotifier struct {
	publisher Publisher
}

// NewQueueNotifier создаёт QueueNotifier.
func NewQueueNotifier(publisher Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher}
}

// Notify публикует уведомление в брокер.
func (n *QueueNotifier) Notify(_ context.Context, username string, alert models.Alert) error {
	return n.publisher.Publish("sos.alert", models.SOSAlertMessage{
		Username: username,
		Alert:    alert,
	})
}

// LogNotifier пишет уведомление в лог. Используется при запуске без
// брокера, повторяя поведение исходной рассылки строка-в-лог.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify пишет уведомление в лог и всегда успешен.
func (n *LogNotifier) Notify(_ context.Context, username string, alert models.Alert) error {
	n.log.Info("sos alert",
		slog.String("username", username),
		slog.String("to", alert.To),
		slog.String("phone", alert.Phone),
		slog.String("relationship", alert.Relationship),
		slog.String("message", alert.AlertMessage))
	return nil
}
