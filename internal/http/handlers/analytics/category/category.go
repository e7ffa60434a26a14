// Package category реализует HTTP-обработчик трат по категориям.
package category

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
)

// Handler обрабатывает запросы трат по категориям.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт трат по категориям.
type Service interface {
	Category(ctx context.Context, userID string) (models.CategorySpending, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Траты по категориям
// @Tags Analytics
// @Produce  json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /analytics/category [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.category"
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

	res, err := h.service.Category(r.Context(), userID)
	if err != nil {
		log.Error("failed to compute category spending", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
