// Package webhook реализует HTTP-обработчик вебхуков Stripe.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/harshpatel-22/subsight-backend/internal/http/response"
	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

const maxBodyBytes = 65536

// Handler принимает события Stripe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает обработку события.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук Stripe
// @Description Проверяет подпись и включает премиум после checkout.session.completed.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись Stripe"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err = h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrNotFound):
		// провайдер не должен повторять событие для неизвестного покупателя
		log.Warn("webhook for unknown customer", sl.Err(err))
	default:
		log.Error("failed to handle webhook", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"received": true,
	}))
}
