package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time, isProduction bool) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger, isProduction),
		logger:      logger,
		startupTime: startupTime,
	}
}

// ping answers frontend health checks.
func (h healthHandler) ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"message":   "Server is running!",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"status":    "healthy",
			"uptime":    time.Since(h.startupTime).String(),
		})
	}
}

// blogsPing is the wake endpoint the public blog polls before loading.
func (h healthHandler) blogsPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{"message": "Server is awake!"})
	}
}
