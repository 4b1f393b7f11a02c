package rabbitmq

import "github.com/streadway/amqp"

// QueuePublisher привязывает канал к exchange и реализует интерфейс
// Publisher, который ждут сервисы.
type QueuePublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewQueuePublisher создаёт QueuePublisher.
func NewQueuePublisher(ch *amqp.Channel, exchange string) *QueuePublisher {
	return &QueuePublisher{ch: ch, exchange: exchange}
}

// Publish публикует message с указанным ключом маршрутизации.
func (p *QueuePublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, p.exchange, routingKey, message)
}
