package sender

import (
	"context"
	"fmt"

	"github.com/harshpatel-22/subsight-backend/internal/models"
	"github.com/harshpatel-22/subsight-backend/internal/rabbitmq"
)

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// QueueMailer ставит письмо в очередь вместо прямой отправки.
type QueueMailer struct {
	publisher Publisher
}

// NewQueueMailer создаёт QueueMailer.
func NewQueueMailer(publisher Publisher) *QueueMailer {
	return &QueueMailer{publisher: publisher}
}

// Send публикует письмо в очередь reminder_email_queue.
func (q *QueueMailer) Send(ctx context.Context, email models.ReminderEmail) error {
	if err := q.publisher.Publish(ctx, rabbitmq.ReminderEmailRoutingKey, email); err != nil {
		return fmt.Errorf("sender.QueueMailer.Send: %w", err)
	}
	return nil
}
