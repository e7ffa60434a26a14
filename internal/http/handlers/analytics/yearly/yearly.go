// Package yearly реализует HTTP-обработчик трат за год.
package yearly

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/http/response"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/models"
	"github.com/harshpatel-22/subsight-backend/internal/services/analytics"
)

// Handler обрабатывает запросы трат за год.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт трат за год.
type Service interface {
	Yearly(ctx context.Context, userID string, year int) (models.YearlySpending, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Траты за год
// @Tags Analytics
// @Produce  json
// @Param year query int true "Год"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /analytics/yearly [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.yearly"
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

	year, err := analytics.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	res, err := h.service.Yearly(r.Context(), userID, year)
	if err != nil {
		log.Error("failed to compute yearly spending", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
