package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/lib/dates"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// TopLimit сколько подписок попадает в рейтинг.
const TopLimit = 5

// Monthly считает нормализованные траты по категориям для подписок, активных
// хотя бы часть месяца.
func Monthly(subs []models.Subscription, year int, month time.Month, loc *time.Location) models.MonthlySpending {
	from, to := dates.MonthWindow(year, month, loc)
	result := models.MonthlySpending{
		Month:      int(month),
		Year:       year,
		ByCategory: make(map[string]float64),
	}
	for _, s := range subs {
		if !dates.Overlaps(s.StartDate, s.EndDate, from, to) {
			continue
		}
		result.ByCategory[s.CategoryOrDefault()] += s.MonthlyCost()
	}
	result.Total = sum(result.ByCategory)
	return result
}

// Yearly раскладывает полную стоимость подписок, начавшихся в году, по месяцу
// начала. Год и месяц берутся в поясе loc.
func Yearly(subs []models.Subscription, year int, loc *time.Location) models.YearlySpending {
	result := models.YearlySpending{
		Year:    year,
		ByMonth: make(map[int]float64, 12),
	}
	for m := 1; m <= 12; m++ {
		result.ByMonth[m] = 0
	}
	for _, s := range subs {
		start := s.StartDate.In(loc)
		if start.Year() != year {
			continue
		}
		result.ByMonth[int(start.Month())] += s.ConvertedAmount
	}
	result.Total = sum(result.ByMonth)
	return result
}

// ByCategory считает нормализованные траты по категориям за всё время.
func ByCategory(subs []models.Subscription) models.CategorySpending {
	result := models.CategorySpending{ByCategory: make(map[string]float64)}
	for _, s := range subs {
		result.ByCategory[s.CategoryOrDefault()] += s.MonthlyCost()
	}
	result.Total = sum(result.ByCategory)
	return result
}

// Top возвращает до TopLimit самых дорогих в месяц подписок. При равной
// стоимости сохраняется исходный порядок.
func Top(subs []models.Subscription) []models.TopSubscription {
	top := make([]models.TopSubscription, 0, len(subs))
	for _, s := range subs {
		top = append(top, models.TopSubscription{Name: s.Name, MonthlyCost: s.MonthlyCost()})
	}
	slices.SortStableFunc(top, func(a, b models.TopSubscription) int {
		return cmp.Compare(b.MonthlyCost, a.MonthlyCost)
	})
	if len(top) > TopLimit {
		top = top[:TopLimit]
	}
	return top
}

func sum[K comparable](m map[K]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}
