package rabbitmq

import "github.com/streadway/amqp"

// EventPublisher публикует события сервиса в обменник EventsExchange.
// Оборачивает канал, чтобы бизнес-логика зависела от узкого интерфейса.
type EventPublisher struct {
	ch *amqp.Channel
}

// NewEventPublisher создает EventPublisher поверх открытого канала.
func NewEventPublisher(ch *amqp.Channel) *EventPublisher {
	return &EventPublisher{ch: ch}
}

// Publish публикует сообщение с заданным ключом маршрутизации.
func (p *EventPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, EventsExchange, routingKey, message)
}
