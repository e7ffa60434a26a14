package socket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/lib/jwt"
	"github.com/harshpatel-22/subsight-backend/internal/realtime"
)

func TestSocketHandler_ReceivesEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := realtime.NewHub(logger, nil)
	maker := jwt.NewJWTMaker("secret", time.Hour)

	srv := httptest.NewServer(middlewarectx.JWTMiddleware(maker, logger)(New(logger, hub)))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	token, err := maker.GenerateToken("u1", "asha@example.com")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer ws.Close()

	require.Eventually(t, func() bool { return hub.Connections("u1") == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, hub.EmitToUser(t.Context(), "u1", "newReminder", map[string]any{"title": "t"}))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var frame realtime.Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "newReminder", frame.Event)
}

func TestSocketHandler_Unauthorized(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := realtime.NewHub(logger, nil)
	maker := jwt.NewJWTMaker("secret", time.Hour)

	srv := httptest.NewServer(middlewarectx.JWTMiddleware(maker, logger)(New(logger, hub)))
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
