// Package apperr описывает классы ошибок, которые сервисы возвращают наружу:
// ошибки валидации, отсутствие сущности, сбой внешней зависимости и попытку
// доступа к чужому ресурсу. HTTP-слой выбирает код ответа по классу ошибки.
package apperr

import (
	"errors"
	"fmt"
)

// Kind класс ошибки.
type Kind string

const (
	// KindValidation некорректные входные данные.
	KindValidation Kind = "validation"
	// KindNotFound сущность не найдена.
	KindNotFound Kind = "not_found"
	// KindUpstream сбой хранилища или канала доставки.
	KindUpstream Kind = "upstream"
	// KindAuthorization доступ к ресурсу другого пользователя.
	KindAuthorization Kind = "authorization"
)

// Sentinel-значения для errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrUpstream      = &Error{Kind: KindUpstream}
	ErrAuthorization = &Error{Kind: KindAuthorization}
)

// Error ошибка с классом, сообщением для клиента и исходной причиной.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает только класс ошибки, поэтому errors.Is(err, ErrNotFound) работает
// для любой ошибки NotFound в цепочке.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Validation создаёт ошибку валидации.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound создаёт ошибку отсутствия сущности.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Authorization создаёт ошибку доступа.
func Authorization(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Upstream оборачивает сбой внешней зависимости.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// KindOf возвращает класс первой ошибки Error в цепочке.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// PublicMessage возвращает сообщение, которое можно показать клиенту.
// Для сбоев зависимостей и неизвестных ошибок отдаётся fallback.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindUpstream || e.Message == "" {
		return fallback
	}
	return e.Message
}
