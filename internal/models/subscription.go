// Package models содержит доменные структуры: подписку, пользователя,
// уведомление и результаты аналитики, а также структуры входящих JSON-запросов.
package models

import "time"

// RenewalMethod способ продления подписки.
type RenewalMethod string

const (
	// RenewalAuto подписка продлевается автоматически.
	RenewalAuto RenewalMethod = "auto"
	// RenewalManual подписку продлевает пользователь.
	RenewalManual RenewalMethod = "manual"
)

// DefaultCategory категория для подписок без категории.
const DefaultCategory = "Other"

// DefaultReminderDaysBefore за сколько дней до окончания напоминать по умолчанию.
const DefaultReminderDaysBefore = 3

// Subscription подписка пользователя.
// EndDate всегда равна StartDate + BillingCycle месяцев.
type Subscription struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"userId"`
	Name               string        `json:"name"`
	Amount             float64       `json:"amount"`
	Currency           string        `json:"currency"`
	ConvertedAmount    float64       `json:"convertedAmount"`
	StartDate          time.Time     `json:"startDate"`
	EndDate            time.Time     `json:"endDate"`
	BillingCycle       int           `json:"billingCycle"`
	Category           string        `json:"category,omitempty"`
	ReminderDaysBefore int           `json:"reminderDaysBefore"`
	RenewalMethod      RenewalMethod `json:"renewalMethod"`
	Notes              string        `json:"notes,omitempty"`
	IsActive           bool          `json:"isActive"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// CategoryOrDefault возвращает категорию или "Other".
func (s Subscription) CategoryOrDefault() string {
	if s.Category == "" {
		return DefaultCategory
	}
	return s.Category
}

// MonthlyCost нормализованная стоимость в месяц в валюте отчётов.
func (s Subscription) MonthlyCost() float64 {
	return s.ConvertedAmount / float64(s.BillingCycle)
}

// SubscriptionWithOwner подписка вместе с данными владельца, как её видит рассылка напоминаний.
// Owner равен nil, если пользователь удалён или не найден.
type SubscriptionWithOwner struct {
	Subscription
	Owner *User
}

// SubscriptionRequest тело запроса на создание и изменение подписки.
type SubscriptionRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	Amount             float64 `json:"amount" validate:"required,gt=0"`
	Currency           string  `json:"currency" validate:"omitempty,len=3,alpha"`
	StartDate          string  `json:"startDate" validate:"required"`
	BillingCycle       int     `json:"billingCycle" validate:"required,oneof=1 3 12"`
	Category           string  `json:"category" validate:"omitempty,max=100"`
	ReminderDaysBefore *int    `json:"reminderDaysBefore" validate:"omitempty,min=0,max=365"`
	RenewalMethod      string  `json:"renewalMethod" validate:"required,oneof=auto manual"`
	Notes              string  `json:"notes" validate:"omitempty,max=2000"`
}

// RenewRequest тело запроса на продление.
type RenewRequest struct {
	BillingCycle int `json:"billingCycle" validate:"required,oneof=1 3 12"`
}
