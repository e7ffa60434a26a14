package models

// MonthlySpending траты за месяц по категориям.
type MonthlySpending struct {
	Month      int                `json:"month"`
	Year       int                `json:"year"`
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// YearlySpending траты за год по месяцам начала подписки, ключи 1..12.
type YearlySpending struct {
	Year    int             `json:"year"`
	Total   float64         `json:"total"`
	ByMonth map[int]float64 `json:"byMonth"`
}

// CategorySpending траты в месяц по категориям за всё время.
type CategorySpending struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// TopSubscription подписка в рейтинге самых дорогих.
type TopSubscription struct {
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthlyCost"`
}
