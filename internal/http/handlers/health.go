package handlers

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	store := "ok"
	if p, ok := a.Projects.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("project store ping failed")
			store = "degraded"
		}
	}
	if a.Projects == nil {
		store = "disabled"
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"store":    store,
		"sessions": a.Sessions.Len(),
	})
}
