package monthly

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Monthly(ctx context.Context, userID string, year int, month time.Month) (models.MonthlySpending, error) {
	args := m.Called(ctx, userID, year, month)
	return args.Get(0).(models.MonthlySpending), args.Error(1)
}

func TestMonthlyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешный расчёт",
			query: "?month=6&year=2025",
			setupMock: func(m *MockService) {
				m.On("Monthly", mock.Anything, "u1", 2025, time.June).Return(models.MonthlySpending{
					Month: 6, Year: 2025, Total: 1749,
					ByCategory: map[string]float64{"Entertainment": 649, "Health": 1000, "Other": 100},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"byCategory":{"Entertainment":649,"Health":1000,"Other":100},"total":1749}}`,
		},
		{
			name:           "без месяца",
			query:          "?year=2025",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `month and year are required`,
		},
		{
			name:           "месяц вне диапазона",
			query:          "?month=13&year=2025",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `month must be between 1 and 12`,
		},
		{
			name:  "ошибка хранилища",
			query: "?month=1&year=2025",
			setupMock: func(m *MockService) {
				m.On("Monthly", mock.Anything, "u1", 2025, time.January).
					Return(models.MonthlySpending{}, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/analytics/monthly"+tt.query, nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), "u1", ""))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
