package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

// TokenValidator checks the bearer token minted by /broadcasting/auth
// against the channel the client is opening.
type TokenValidator interface {
	ValidateChannelToken(tokenString, channel string) (*auth.ChannelClaims, error)
}

type SSEHandler struct {
	*transport.BaseHandler
	hub       *Hub
	tokens    TokenValidator
	heartbeat time.Duration
}

func NewSSEHandler(hub *Hub, tokens TokenValidator, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &SSEHandler{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		hub:         hub,
		tokens:      tokens,
		heartbeat:   heartbeat,
	}
}

// Stream handles GET /broadcast/{channel} as a Server-Sent Events feed.
// The subscription dies with the request context.
func (h *SSEHandler) Stream(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if channel == "" {
		h.WriteError(w, http.StatusBadRequest, "missing channel")
		return
	}

	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		// EventSource cannot set headers, so the token may ride the query
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	claims, err := h.tokens.ValidateChannelToken(token, channel)
	if err != nil {
		h.HandleServiceError(w, err)
		return
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

	feed, cancel := h.hub.Subscribe(channel)
	defer cancel()

	h.Logger.Info("sse subscriber connected", "channel", channel, "user_id", claims.UserID)
	defer h.Logger.Info("sse subscriber disconnected", "channel", channel, "user_id", claims.UserID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case env, open := <-feed:
			if !open {
				return
			}
			payload, err := json.Marshal(env)
			if err != nil {
				h.Logger.Error("failed to marshal broadcast envelope", "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", env.ID, env.Event, payload)
			flusher.Flush()
		}
	}
}
