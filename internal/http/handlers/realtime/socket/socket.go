// Package socket реализует WebSocket-эндпоинт для push-уведомлений.
package socket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/http/response"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

// Hub обслуживает соединения пользователей.
type Hub interface {
	Serve(ctx context.Context, userID string, ws *websocket.Conn) error
}

// Handler переводит запрос в WebSocket и передаёт соединение хабу.
type Handler struct {
	log      *slog.Logger
	hub      Hub
	upgrader websocket.Upgrader
}

// New создает новый Handler.
func New(log *slog.Logger, hub Hub) *Handler {
	return &Handler{
		log: log,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP godoc
// @Summary Realtime-канал
// @Description WebSocket. Кадры {"event","data"}, событие newReminder. Токен в заголовке или в параметре token.
// @Tags Realtime
// @Param token query string false "JWT"
// @Success 101
// @Failure 401 {object} response.ErrorResponse
// @Router /ws [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.realtime.socket"
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

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", sl.Err(err))
		return
	}

	log.Debug("websocket connected", slog.String("user_id", userID))
	if err := h.hub.Serve(r.Context(), userID, ws); err != nil {
		log.Warn("websocket rejected", sl.Err(err))
	}
}
