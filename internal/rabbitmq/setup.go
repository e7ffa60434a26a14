package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange direct-обменник для уведомлений.
const Exchange = "notifications"

// Очередь писем-напоминаний.
const (
	ReminderEmailQueue      = "reminder_email_queue"
	ReminderEmailRoutingKey = "reminder.email"
)

// QueueConfig очередь и ключ маршрутизации, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// ReminderQueues очереди, которые нужны рассылке напоминаний.
func ReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ReminderEmailQueue, RoutingKey: ReminderEmailRoutingKey},
	}
}

// SetupChannel открывает канал, объявляет обменник и привязывает очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fail := func(err error) (*amqp.Channel, error) {
		_ = ch.Close()
		return nil, err
	}

	if err := ch.Qos(10, 0, false); err != nil {
		return fail(fmt.Errorf("%s: failed to set QoS: %w", op, err))
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", op, err))
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
			return fail(fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err))
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return fail(fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err))
		}
	}

	return ch, nil
}
