package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshpatel-22/subsight-backend/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func subscription(name string, start time.Time, cycle int, converted float64, category string) models.Subscription {
	return models.Subscription{
		Name:            name,
		StartDate:       start,
		EndDate:         start.AddDate(0, cycle, 0),
		BillingCycle:    cycle,
		ConvertedAmount: converted,
		Category:        category,
	}
}

func TestMonthly(t *testing.T) {
	subs := []models.Subscription{
		subscription("Netflix", day(2025, time.May, 15), 1, 649, "Entertainment"),
		subscription("Gym", day(2025, time.January, 1), 12, 12000, "Health"),
		subscription("Notes", day(2025, time.June, 30), 3, 300, ""),
		subscription("Old", day(2024, time.January, 1), 1, 999, "Entertainment"),
		subscription("Future", day(2025, time.July, 1), 1, 100, "Health"),
	}

	got := Monthly(subs, 2025, time.June, time.UTC)

	assert.Equal(t, 6, got.Month)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, map[string]float64{
		"Entertainment": 649,
		"Health":        1000,
		"Other":         100,
	}, got.ByCategory)
	assert.InDelta(t, 1749, got.Total, 1e-9)
}

func TestMonthly_NoSubscriptions(t *testing.T) {
	got := Monthly(nil, 2025, time.February, time.UTC)
	assert.Empty(t, got.ByCategory)
	assert.NotNil(t, got.ByCategory)
	assert.Zero(t, got.Total)
}

func TestYearly(t *testing.T) {
	subs := []models.Subscription{
		subscription("A", day(2025, time.January, 10), 1, 100, ""),
		subscription("B", day(2025, time.January, 20), 12, 1200, ""),
		subscription("C", day(2025, time.December, 31), 3, 300, ""),
		subscription("D", day(2024, time.December, 31), 1, 50, ""),
	}

	got := Yearly(subs, 2025, time.UTC)

	assert.Equal(t, 2025, got.Year)
	assert.Len(t, got.ByMonth, 12)
	assert.Equal(t, 1300.0, got.ByMonth[1])
	assert.Equal(t, 300.0, got.ByMonth[12])
	assert.Equal(t, 0.0, got.ByMonth[6])
	assert.Equal(t, 1600.0, got.Total)
}

func TestByCategory(t *testing.T) {
	subs := []models.Subscription{
		subscription("A", day(2020, time.January, 1), 3, 300, "Music"),
		subscription("B", day(2025, time.January, 1), 1, 50, "Music"),
		subscription("C", day(2025, time.January, 1), 12, 120, ""),
	}

	got := ByCategory(subs)
	assert.Equal(t, map[string]float64{"Music": 150, "Other": 10}, got.ByCategory)
	assert.Equal(t, 160.0, got.Total)

	empty := ByCategory(nil)
	assert.Empty(t, empty.ByCategory)
	assert.Zero(t, empty.Total)
}

func TestTop(t *testing.T) {
	start := day(2025, time.January, 1)
	subs := []models.Subscription{
		subscription("a", start, 1, 100, ""),
		subscription("b", start, 12, 2400, ""),
		subscription("c", start, 1, 300, ""),
		subscription("d", start, 3, 300, ""),
		subscription("e", start, 1, 200, ""),
		subscription("f", start, 1, 200, ""),
		subscription("g", start, 1, 50, ""),
	}

	got := Top(subs)
	assert.Equal(t, []models.TopSubscription{
		{Name: "c", MonthlyCost: 300},
		{Name: "b", MonthlyCost: 200},
		{Name: "e", MonthlyCost: 200},
		{Name: "f", MonthlyCost: 200},
		{Name: "a", MonthlyCost: 100},
	}, got)

	assert.Empty(t, Top(nil))
	assert.Len(t, Top(subs[:2]), 2)
}

func TestMonthlyAndYearly_WestOfUTC(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	local := func(y int, m time.Month, d int) time.Time {
		// хранилище отдаёт время в UTC
		return time.Date(y, m, d, 0, 0, 0, 0, ny).UTC()
	}
	subs := []models.Subscription{
		subscription("May", local(2025, time.May, 1), 1, 100, "Music"),
		subscription("NewYear", local(2025, time.January, 1), 12, 1200, "Health"),
	}

	tests := []struct {
		name  string
		month time.Month
		want  float64
	}{
		{name: "month before start", month: time.April, want: 100},
		{name: "start month", month: time.May, want: 200},
		{name: "after end", month: time.July, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Monthly(subs, 2025, tt.month, ny)
			assert.InDelta(t, tt.want, got.Total, 1e-9)
		})
	}

	april := Monthly(subs[:1], 2025, time.April, ny)
	assert.Zero(t, april.Total)

	yearly := Yearly(subs, 2025, ny)
	assert.Equal(t, 1200.0, yearly.ByMonth[1])
	assert.Equal(t, 100.0, yearly.ByMonth[5])
	assert.Zero(t, yearly.ByMonth[4])

	assert.Zero(t, Yearly(subs, 2024, ny).Total)
}
