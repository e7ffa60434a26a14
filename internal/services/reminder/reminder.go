// Package reminder реализует ежедневную рассылку напоминаний о скором
// окончании подписок: письмо, запись уведомления и push в открытые соединения.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/dates"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/metrics"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// EventNewReminder имя события realtime-канала о новом напоминании.
const EventNewReminder = "newReminder"

// Store источник подписок и хранилище уведомлений.
type Store interface {
	ListSubscriptionsWithOwners(ctx context.Context) ([]models.SubscriptionWithOwner, error)
	InsertNotification(ctx context.Context, n models.Notification) error
}

// Mailer канал доставки писем.
type Mailer interface {
	Send(ctx context.Context, email models.ReminderEmail) error
}

// Emitter отправляет событие во все соединения пользователя.
type Emitter interface {
	EmitToUser(ctx context.Context, userID, event string, payload any) error
}

// Guard не даёт отправить одно напоминание дважды за день.
type Guard interface {
	Acquire(ctx context.Context, subscriptionID, day string) (bool, error)
}

// Recorder принимает метрики прогона.
type Recorder interface {
	SweepFinished(result string, d time.Duration)
	ReminderProcessed(outcome string)
}

// Report итог одного прогона.
type Report struct {
	Scanned int `json:"scanned"`
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Config параметры рассылки.
type Config struct {
	Location        *time.Location
	Workers         int
	DeliveryTimeout time.Duration
}

// Option настраивает Engine.
type Option func(*Engine)

// WithGuard включает защиту от повторной отправки в тот же день.
func WithGuard(g Guard) Option {
	return func(e *Engine) { e.guard = g }
}

// WithRecorder подключает метрики.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine выполняет прогон рассылки.
type Engine struct {
	store    Store
	mailer   Mailer
	guard    Guard
	recorder Recorder
	log      *slog.Logger
	cfg      Config
	now      func() time.Time
}

// NewEngine создаёт Engine.
func NewEngine(log *slog.Logger, store Store, mailer Mailer, cfg Config, opts ...Option) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 15 * time.Second
	}
	e := &Engine{
		store:  store,
		mailer: mailer,
		log:    log,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Title заголовок уведомления для подписки.
func Title(sub models.Subscription) string {
	if sub.RenewalMethod == models.RenewalAuto {
		return fmt.Sprintf("Reminder: Your \"%s\" subscription will renew soon.", sub.Name)
	}
	return fmt.Sprintf("Reminder: Your \"%s\" subscription will expire soon.", sub.Name)
}

// RunSweep выполняет прогон на текущую дату. emitter может быть nil.
func (e *Engine) RunSweep(ctx context.Context, emitter Emitter) (Report, error) {
	return e.RunSweepAt(ctx, e.now(), emitter)
}

// RunSweepAt выполняет прогон так, как если бы сейчас было now.
// Ошибка чтения подписок прерывает прогон, ошибки отдельных подписок только считаются.
func (e *Engine) RunSweepAt(ctx context.Context, now time.Time, emitter Emitter) (Report, error) {
	const op = "services.reminder.RunSweepAt"
	log := e.log.With(sl.Op(op))
	started := time.Now()

	today := dates.StartOfDay(now, e.cfg.Location)
	log.Info("starting reminder sweep", slog.String("day", today.Format(dates.Layout)))

	items, err := e.store.ListSubscriptionsWithOwners(ctx)
	if err != nil {
		log.Error("failed to load subscriptions", sl.Err(err))
		e.sweepFinished("error", started)
		err = apperr.Upstream("failed to load subscriptions", fmt.Errorf("%s: %w", op, err))
		sentry.CaptureException(err)
		return Report{}, err
	}

	report := Report{Scanned: len(items)}
	var sent, skipped, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for _, item := range items {
		if !dates.IsDue(today, item.EndDate, item.ReminderDaysBefore, e.cfg.Location) {
			continue
		}
		report.Due++
		g.Go(func() error {
			outcome := e.process(ctx, log, item, today, emitter)
			switch outcome {
			case metrics.OutcomeSent:
				sent.Add(1)
			case metrics.OutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			if e.recorder != nil {
				e.recorder.ReminderProcessed(outcome)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Sent = int(sent.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())

	e.sweepFinished("ok", started)
	log.Info("reminder sweep finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("due", report.Due),
		slog.Int("sent", report.Sent),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (e *Engine) process(ctx context.Context, log *slog.Logger, item models.SubscriptionWithOwner, today time.Time, emitter Emitter) string {
	log = log.With(slog.String("subscription_id", item.ID))

	owner := item.Owner
	if owner == nil || owner.Email == "" {
		log.Warn("skipping reminder: owner or email missing")
		return metrics.OutcomeSkipped
	}

	if e.guard != nil {
		claimed, err := e.guard.Acquire(ctx, item.ID, today.Format(dates.Layout))
		if err != nil {
			log.Error("failed to claim reminder", sl.Err(err))
			return metrics.OutcomeFailed
		}
		if !claimed {
			log.Info("reminder already sent today")
			return metrics.OutcomeSkipped
		}
	}

	email := models.ReminderEmail{
		To:               owner.Email,
		Name:             owner.FullName,
		EndDate:          item.EndDate,
		SubscriptionName: item.Name,
		BillingCycle:     item.BillingCycle,
		Notes:            item.Notes,
		RenewalMethod:    item.RenewalMethod,
	}
	sendCtx, cancel := context.WithTimeout(ctx, e.cfg.DeliveryTimeout)
	err := e.mailer.Send(sendCtx, email)
	cancel()
	if err != nil {
		log.Error("failed to send reminder email", sl.Err(err))
		return metrics.OutcomeFailed
	}

	notification := models.Notification{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		Title:     Title(item.Subscription),
		Unread:    true,
		CreatedAt: e.now().UTC(),
	}
	if err := e.store.InsertNotification(ctx, notification); err != nil {
		log.Error("failed to store notification", sl.Err(err))
		return metrics.OutcomeFailed
	}

	if emitter != nil {
		emitCtx, cancel := context.WithTimeout(ctx, e.cfg.DeliveryTimeout)
		if err := emitter.EmitToUser(emitCtx, owner.ID, EventNewReminder, notification); err != nil {
			log.Warn("failed to push reminder", sl.Err(err))
		}
		cancel()
	}

	log.Debug("reminder delivered")
	return metrics.OutcomeSent
}

func (e *Engine) sweepFinished(result string, started time.Time) {
	if e.recorder != nil {
		e.recorder.SweepFinished(result, time.Since(started))
	}
}
