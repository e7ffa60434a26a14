// Package smtp содержит SMTP-транспорт с STARTTLS и интерфейсы, через которые
// сервис рассылки отправляет письма и которые подменяются в тестах.
package smtp

import (
	"context"
	"io"
)

// Client команды SMTP-сессии, которые использует отправитель.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает аутентифицированную SMTP-сессию.
type TransportInterface interface {
	Connect(ctx context.Context) (Client, error)
	GetSMTPUser() string
}
