package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"innospark/internal/domain"
	"innospark/internal/metrics"
)

// ListProjects returns the rows of the remote project store, newest first.
func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	if a.Projects == nil {
		a.error(w, http.StatusServiceUnavailable, "store_disabled", "project store is not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.Config.StoreTimeout)
	defer cancel()
	items, err := a.Projects.List(ctx)
	metrics.RecordStoreCall("list", err)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("list projects failed")
		a.error(w, http.StatusServiceUnavailable, "store_unavailable", "failed to load projects")
		return
	}
	if items == nil {
		items = []domain.Project{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
