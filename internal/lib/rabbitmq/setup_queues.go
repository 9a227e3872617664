package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// EventsExchange — direct-обменник событий автомоечного сервиса.
const EventsExchange = "carwash.events"

// Ключи маршрутизации событий сервиса.
const (
	RoutingKeyServiceCompleted = "service.completed"
	RoutingKeyWorkerAssigned   = "worker.assigned"
)

// QueueConfig описывает очередь и ключ маршрутизации, которым она привязана.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetEventQueues возвращает набор очередей для потребителей событий.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "carwash.service.completed", RoutingKey: RoutingKeyServiceCompleted},
		{QueueName: "carwash.worker.assigned", RoutingKey: RoutingKeyWorkerAssigned},
	}
}

// SetupChannel открывает канал, объявляет обменник событий и привязывает
// к нему перечисленные очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		EventsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			EventsExchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
