package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expiring-map-api/internal/auth"
	"expiring-map-api/internal/middleware"
	"expiring-map-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer("secret", "iss", "aud", time.Hour)
	hub := realtime.NewHub()

	h := &WSHandler{Hub: hub}
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(tokens))
	r.GET("/api/ws", h.Subscribe)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := tokens.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(realtime.Event{Type: realtime.EventRemoved, Key: "k"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev realtime.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	require.Equal(t, realtime.EventRemoved, ev.Type)
	require.Equal(t, "k", ev.Key)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_RequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer("secret", "iss", "aud", time.Hour)
	h := &WSHandler{Hub: realtime.NewHub()}
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(tokens))
	r.GET("/api/ws", h.Subscribe)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
