// Package metrics описывает метрики Prometheus сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы обработки одной подписки при рассылке.
const (
	OutcomeSent    = "sent"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Metrics набор метрик рассылки и realtime-канала.
type Metrics struct {
	sweeps        *prometheus.CounterVec
	reminders     *prometheus.CounterVec
	sweepDuration prometheus.Histogram
	connections   prometheus.Gauge
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subsight_reminder_sweeps_total",
			Help: "Reminder sweeps by result.",
		}, []string{"result"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subsight_reminders_total",
			Help: "Due subscriptions processed by outcome.",
		}, []string{"outcome"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "subsight_reminder_sweep_duration_seconds",
			Help:    "Duration of a reminder sweep.",
			Buckets: prometheus.DefBuckets,
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "subsight_realtime_connections",
			Help: "Open realtime connections.",
		}),
	}
	reg.MustRegister(m.sweeps, m.reminders, m.sweepDuration, m.connections)
	return m
}

// SweepFinished фиксирует завершение прогона с результатом ok или error.
func (m *Metrics) SweepFinished(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(result).Inc()
	m.sweepDuration.Observe(d.Seconds())
}

// ReminderProcessed увеличивает счётчик исхода обработки подписки.
func (m *Metrics) ReminderProcessed(outcome string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(outcome).Inc()
}

// ConnectionOpened и ConnectionClosed ведут число открытых соединений.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}
