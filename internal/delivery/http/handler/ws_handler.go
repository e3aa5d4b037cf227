package handler

import (
	"net/http"

	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/realtime"
	"clinic-backoffice/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSHandler upgrades authenticated clients onto the event hub. Browsers
// cannot set headers on a websocket handshake, so the access token comes
// from the token query parameter.
type WSHandler struct {
	hub      *realtime.Hub
	auth     *middleware.AuthMiddleware
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, auth *middleware.AuthMiddleware, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub:  hub,
		auth: auth,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Token is required")
		return
	}

	claims, status, msg := h.auth.Verify(r.Context(), token)
	if claims == nil {
		response.Error(w, status, msg, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.Warnf("Failed to upgrade websocket: %+v", err)
		return
	}

	h.hub.Serve(conn, claims.UserID)
}
