package top

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Top(ctx context.Context, userID string) ([]models.TopSubscription, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]models.TopSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTopHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("рейтинг", func(t *testing.T) {
		m := new(MockService)
		m.On("Top", mock.Anything, "u1").Return([]models.TopSubscription{
			{Name: "Gym", MonthlyCost: 1000},
			{Name: "Netflix", MonthlyCost: 649},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/analytics/top", nil)
		req = req.WithContext(middlewarectx.WithUser(req.Context(), "u1", ""))
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"OK","data":[{"name":"Gym","monthlyCost":1000},{"name":"Netflix","monthlyCost":649}]}`, w.Body.String())
	})

	t.Run("пустой рейтинг", func(t *testing.T) {
		m := new(MockService)
		m.On("Top", mock.Anything, "u1").Return([]models.TopSubscription{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/analytics/top", nil)
		req = req.WithContext(middlewarectx.WithUser(req.Context(), "u1", ""))
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		assert.JSONEq(t, `{"status":"OK","data":[]}`, w.Body.String())
	})

	t.Run("без пользователя", func(t *testing.T) {
		w := httptest.NewRecorder()
		New(logger, new(MockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
