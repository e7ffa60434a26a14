// Package monthly реализует HTTP-обработчик трат за месяц.
package monthly

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/http/response"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/models"
	"github.com/harshpatel-22/subsight-backend/internal/services/analytics"
)

// Handler обрабатывает запросы трат за месяц.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт трат за месяц.
type Service interface {
	Monthly(ctx context.Context, userID string, year int, month time.Month) (models.MonthlySpending, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Траты за месяц
// @Description Нормализованные траты в месяц по категориям для подписок, активных в этом месяце.
// @Tags Analytics
// @Produce  json
// @Param month query int true "Месяц 1..12"
// @Param year query int true "Год"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/monthly [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.monthly"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	month, err := analytics.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	year, err := analytics.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	res, err := h.service.Monthly(r.Context(), userID, year, month)
	if err != nil {
		log.Error("failed to compute monthly spending", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"total":      res.Total,
		"byCategory": res.ByCategory,
	}))
}
