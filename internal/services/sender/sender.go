// Package sender отправляет письма-напоминания: напрямую через SMTP или через
// очередь RabbitMQ, которую разбирает отдельный процесс.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/lib/smtp"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// SenderService отправляет письма через SMTP-транспорт. Каждое письмо
// открывает свою сессию, поэтому сервис можно вызывать из нескольких горутин.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// Send отправляет письмо-напоминание.
func (s *SenderService) Send(ctx context.Context, email models.ReminderEmail) error {
	body, err := RenderReminder(email)
	if err != nil {
		return err
	}
	return s.sendEmail(ctx, []string{email.To}, Subject(email), body)
}

// HandleReminderMessage обработчик сообщений очереди писем.
func (s *SenderService) HandleReminderMessage(ctx context.Context, body []byte) error {
	var email models.ReminderEmail
	if err := json.Unmarshal(body, &email); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if email.To == "" {
		s.log.Warn("dropping reminder without recipient", slog.String("subscription", email.SubscriptionName))
		return nil
	}
	return s.Send(ctx, email)
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, subject, htmlBody string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + mime.QEncoding.Encode("utf-8", "SubSight") + " <" + from + ">",
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
