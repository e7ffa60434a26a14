package renew

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Renew(ctx context.Context, userID, id string, billingCycle int) (*models.Subscription, error) {
	args := m.Called(ctx, userID, id, billingCycle)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное продление",
			body: `{"billingCycle":3}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "u1", "s1", 3).Return(&models.Subscription{
					ID:           "s1",
					BillingCycle: 3,
					IsActive:     true,
					EndDate:      time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"endDate":"2025-05-10T00:00:00Z"`,
		},
		{
			name:           "недопустимый цикл",
			body:           `{"billingCycle":2}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `BillingCycle`,
		},
		{
			name: "подписка не найдена",
			body: `{"billingCycle":1}`,
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "u1", "s1", 1).Return(nil, apperr.NotFound("subscription not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `subscription not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/s1/renew", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "s1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithUser(ctx, "u1", ""))

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
