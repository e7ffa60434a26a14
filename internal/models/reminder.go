package models

import "time"

// ReminderEmail данные письма-напоминания. Передаётся в очередь как JSON.
type ReminderEmail struct {
	To               string        `json:"to"`
	Name             string        `json:"name"`
	EndDate          time.Time     `json:"endDate"`
	SubscriptionName string        `json:"subscriptionName"`
	BillingCycle     int           `json:"billingCycle"`
	Notes            string        `json:"notes,omitempty"`
	RenewalMethod    RenewalMethod `json:"renewalMethod"`
}
