package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "monthly",
			start:  time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "quarterly across year",
			start:  time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
			months: 3,
			want:   time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly",
			start:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			months: 12,
			want:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "overflow normalizes",
			start:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestIsDue_ExactDay(t *testing.T) {
	endDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		today time.Time
		want  bool
	}{
		{name: "day before reminder", today: time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC), want: false},
		{name: "reminder day", today: time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC), want: true},
		{name: "reminder day late evening", today: time.Date(2025, 6, 7, 23, 59, 0, 0, time.UTC), want: true},
		{name: "day after reminder", today: time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.today, endDate, 3, time.UTC))
		})
	}
}

func TestIsDue_UsesConfiguredLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	endDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	// Один и тот же момент: 2025-06-07 02:00 в Калькутте и ещё 2025-06-06 в UTC.
	now := time.Date(2025, 6, 6, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, 7, StartOfDay(now, kolkata).Day())
	assert.Equal(t, 6, StartOfDay(now, time.UTC).Day())
	assert.True(t, IsDue(now, endDate, 3, kolkata))
	assert.False(t, IsDue(now, endDate, 3, time.UTC))
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2024, time.February, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), end)

	start, end = MonthWindow(2025, time.December, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestOverlaps(t *testing.T) {
	from, to := MonthWindow(2025, time.June, time.UTC)

	assert.True(t, Overlaps(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, Overlaps(time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, Overlaps(time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC), time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC), from, to))
	assert.False(t, Overlaps(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), from, to))
	assert.False(t, Overlaps(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), from, to))
}

func TestIsDue_NegativeOffset(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	endDate := time.Date(2025, 6, 10, 0, 0, 0, 0, ny).UTC()

	assert.False(t, IsDue(time.Date(2025, 6, 6, 23, 59, 0, 0, ny), endDate, 3, ny))
	assert.True(t, IsDue(time.Date(2025, 6, 7, 0, 0, 0, 0, ny), endDate, 3, ny))
	assert.False(t, IsDue(time.Date(2025, 6, 8, 0, 0, 0, 0, ny), endDate, 3, ny))

	from, to := YearWindow(2025, ny)
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, ny).UTC()
	assert.True(t, Overlaps(jan1, jan1, from, to))
}
