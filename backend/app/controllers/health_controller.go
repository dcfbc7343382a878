package controllers

import (
	"context"
	"net/http"
	"time"
)

// HealthController answers liveness probes; DB is optional.
type HealthController struct {
	Ping func(ctx context.Context) error
}

func NewHealthController(ping func(ctx context.Context) error) *HealthController {
	return &HealthController{Ping: ping}
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if c.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
