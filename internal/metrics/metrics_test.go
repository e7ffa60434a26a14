package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SweepFinished("ok", time.Second)
	m.SweepFinished("error", time.Second)
	m.SweepFinished("ok", 2*time.Second)
	m.ReminderProcessed(OutcomeSent)
	m.ReminderProcessed(OutcomeSent)
	m.ReminderProcessed(OutcomeFailed)
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweeps.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reminders.WithLabelValues(OutcomeSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminders.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sweepDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SweepFinished("ok", time.Second)
		m.ReminderProcessed(OutcomeSkipped)
		m.ConnectionOpened()
		m.ConnectionClosed()
	})
}
