package realtime

import (
	"net/http"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	hub    *Hub
	tokens auth.TokenGenerator
}

func NewHandler(base *transport.BaseHandler, hub *Hub, tokens auth.TokenGenerator) *Handler {
	return &Handler{BaseHandler: base, hub: hub, tokens: tokens}
}

// Events serves the SSE stream. A token is optional: without one the client
// still gets broadcasts, but a token that is present must validate.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	var role auth.Role
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			h.HandleServiceError(w, apperrors.ErrInvalidToken)
			return
		}
		role = claims.Role
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	id, recv := h.hub.Register(role)
	defer h.hub.Unregister(id)

	heartbeatTimer := newHeartbeat()
	defer heartbeatTimer.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-recv:
			if !ok {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeatTimer.C:
			if _, err := w.Write(heartbeat); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
