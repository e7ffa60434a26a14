// Package dates содержит календарную арифметику, общую для напоминаний и аналитики.
// Все функции работают в явно переданном часовом поясе, чтобы результат не
// зависел от локали процесса.
package dates

import "time"

// Layout формат даты в запросах и ключах кэша.
const Layout = "2006-01-02"

// StartOfDay возвращает полночь календарного дня t в поясе loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddMonths прибавляет месяцы с нормализацией переполнения:
// 31 января + 1 месяц = 3 марта (2 марта в високосный год).
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// ReminderDate день отправки напоминания: endDate минус leadDays дней, в полночь.
func ReminderDate(endDate time.Time, leadDays int, loc *time.Location) time.Time {
	return StartOfDay(endDate.In(loc).AddDate(0, 0, -leadDays), loc)
}

// IsDue сообщает, что напоминание для endDate нужно отправить именно в день today.
// Сравнение точное: накануне и на следующий день результат false.
func IsDue(today, endDate time.Time, leadDays int, loc *time.Location) bool {
	return ReminderDate(endDate, leadDays, loc).Equal(StartOfDay(today, loc))
}

// MonthWindow возвращает границы месяца: первая секунда первого дня и
// 23:59:59 последнего дня.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month+1, 0, 23, 59, 59, 0, loc)
	return start, end
}

// YearWindow возвращает границы календарного года.
func YearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
}

// Overlaps проверяет пересечение [start, end] с окном [from, to] включительно.
func Overlaps(start, end, from, to time.Time) bool {
	return !start.After(to) && !end.Before(from)
}
