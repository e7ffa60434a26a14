package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/harshpatel-22/subsight-backend/internal/migrations"
	"github.com/harshpatel-22/subsight-backend/internal/models"
	"github.com/harshpatel-22/subsight-backend/internal/testutil"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	db, _ := testutil.StartPostgres(t)
	require.NoError(t, migrations.Run(db))
	return &Storage{DB: db}
}

// TestDataFactory создаёт тестовые данные через методы хранилища.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: email, FullName: "Test User"}
	require.NoError(t, f.storage.CreateUser(t.Context(), user))
	return user
}

func (f *TestDataFactory) CreateSubscription(t *testing.T, userID, name string, start time.Time, cycle int, converted float64, category string) models.Subscription {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	sub := models.Subscription{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               name,
		Amount:             converted,
		Currency:           "INR",
		ConvertedAmount:    converted,
		StartDate:          start,
		EndDate:            start.AddDate(0, cycle, 0),
		BillingCycle:       cycle,
		Category:           category,
		ReminderDaysBefore: models.DefaultReminderDaysBefore,
		RenewalMethod:      models.RenewalAuto,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, f.storage.CreateSubscription(t.Context(), sub))
	return sub
}
