package markall

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
	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) MarkAll(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestMarkAllHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		count          int
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "пустой список", count: 0, expectedStatus: http.StatusOK, expectedBody: `"cleared":0`},
		{name: "несколько", count: 3, expectedStatus: http.StatusOK, expectedBody: `"cleared":3`},
		{name: "нет пользователя", err: apperr.NotFound("user not found"), expectedStatus: http.StatusNotFound, expectedBody: `user not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockService)
			m.On("MarkAll", mock.Anything, "u1").Return(tt.count, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), "u1", ""))
			w := httptest.NewRecorder()

			New(logger, m).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
