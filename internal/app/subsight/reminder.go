package subsight

import (
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/harshpatel-22/subsight-backend/internal/cache"
	"github.com/harshpatel-22/subsight-backend/internal/config"
	"github.com/harshpatel-22/subsight-backend/internal/lib/smtp"
	"github.com/harshpatel-22/subsight-backend/internal/metrics"
	"github.com/harshpatel-22/subsight-backend/internal/rabbitmq"
	"github.com/harshpatel-22/subsight-backend/internal/services/reminder"
	"github.com/harshpatel-22/subsight-backend/internal/services/sender"
)

// Mailer канал доставки писем вместе с функцией освобождения ресурсов.
type Mailer struct {
	reminder.Mailer
	close func()
}

// Close освобождает соединения канала.
func (m *Mailer) Close() {
	if m.close != nil {
		m.close()
	}
}

// NewMailer выбирает канал доставки по reminder.email_delivery: прямой SMTP
// или публикация в очередь, которую разбирает cmd/sender.
func NewMailer(cfg *config.Config, logger *slog.Logger) (*Mailer, error) {
	const op = "app.subsight.NewMailer"

	if cfg.EmailDelivery != "queue" {
		transport := smtp.NewTransport(cfg.SMTP, logger)
		return &Mailer{Mailer: sender.NewSenderService(logger, transport)}, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ReminderQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.Exchange)
	return &Mailer{
		Mailer: sender.NewQueueMailer(publisher),
		close:  closeAMQP(logger, conn, ch),
	}, nil
}

func closeAMQP(logger *slog.Logger, conn *amqp.Connection, ch *amqp.Channel) func() {
	return func() {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", slog.Any("err", err))
		}
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", slog.Any("err", err))
		}
	}
}

// NewReminderEngine собирает движок рассылки из конфига.
func NewReminderEngine(cfg *config.Config, logger *slog.Logger, store reminder.Store, mailer reminder.Mailer, redis *cache.Cache, m *metrics.Metrics) (*reminder.Engine, error) {
	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, err
	}
	opts := []reminder.Option{reminder.WithRecorder(m)}
	if cfg.DedupeSameDay && redis != nil {
		opts = append(opts, reminder.WithGuard(cache.NewReminderGuard(redis)))
	}
	return reminder.NewEngine(logger, store, mailer, reminder.Config{
		Location:        loc,
		Workers:         cfg.Workers,
		DeliveryTimeout: cfg.DeliveryTimeout,
	}, opts...), nil
}
