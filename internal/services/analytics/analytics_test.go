package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harshpatel-22/subsight-backend/internal/cache"
	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockRepository) ListSubscriptionsOverlapping(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockRepository) ListSubscriptionsStartedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestParseMonthAndYear(t *testing.T) {
	tests := []struct {
		name    string
		month   string
		year    string
		wantErr bool
	}{
		{name: "valid", month: "6", year: "2025"},
		{name: "missing month", month: "", year: "2025", wantErr: true},
		{name: "missing year", month: "6", year: "", wantErr: true},
		{name: "month out of range", month: "13", year: "2025", wantErr: true},
		{name: "month zero", month: "0", year: "2025", wantErr: true},
		{name: "not a number", month: "june", year: "2025", wantErr: true},
		{name: "bad year", month: "6", year: "20x5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errM := ParseMonth(tt.month)
			_, errY := ParseYear(tt.year)
			err := errors.Join(errM, errY)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Monthly_UsesCache(t *testing.T) {
	c, mr := setupCache(t)
	repo := new(MockRepository)
	subs := []models.Subscription{subscription("Netflix", day(2025, time.June, 1), 1, 649, "")}
	repo.On("ListSubscriptionsOverlapping", mock.Anything, "u1",
		day(2025, time.June, 1), time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)).
		Return(subs, nil).Once()

	svc := NewService(newNoopLogger(), repo, c, time.Minute, time.UTC)

	first, err := svc.Monthly(t.Context(), "u1", 2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, 649.0, first.Total)
	assert.True(t, mr.Exists("analytics:u1:monthly:2025-06"))

	second, err := svc.Monthly(t.Context(), "u1", 2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestService_Yearly(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListSubscriptionsStartedBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Return([]models.Subscription{subscription("A", day(2025, time.March, 3), 12, 1200, "")}, nil)

	got, err := NewService(newNoopLogger(), repo, nil, 0, nil).Yearly(t.Context(), "u1", 2025)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.ByMonth[3])
	assert.Equal(t, 1200.0, got.Total)
}

func TestService_CategoryAndTop(t *testing.T) {
	c, _ := setupCache(t)
	repo := new(MockRepository)
	repo.On("ListSubscriptions", mock.Anything, "u1").Return([]models.Subscription{
		subscription("A", day(2025, time.March, 3), 1, 100, "Music"),
		subscription("B", day(2025, time.March, 3), 1, 50, ""),
	}, nil).Twice()

	svc := NewService(newNoopLogger(), repo, c, time.Minute, time.UTC)

	cat, err := svc.Category(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Music": 100, "Other": 50}, cat.ByCategory)

	top, err := svc.Top(t.Context(), "u1")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Name)

	cached, err := svc.Top(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, top, cached)
	repo.AssertExpectations(t)
}

func TestService_CacheFailureDoesNotFailRequest(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	repo := new(MockRepository)
	repo.On("ListSubscriptions", mock.Anything, "u1").Return([]models.Subscription{}, nil)

	got, err := NewService(newNoopLogger(), repo, c, time.Minute, time.UTC).Category(t.Context(), "u1")
	require.NoError(t, err)
	assert.Zero(t, got.Total)
}

func TestService_StoreFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListSubscriptions", mock.Anything, "u1").Return(nil, errors.New("db down"))

	_, err := NewService(newNoopLogger(), repo, nil, 0, time.UTC).Top(t.Context(), "u1")
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}
