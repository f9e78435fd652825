package handlers

import (
	"encoding/json"
	"net/http"

	"mapposter/internal/apperr"
	"mapposter/internal/geo"
	"mapposter/internal/infra"
	"mapposter/internal/middleware"
	"mapposter/internal/providers/staticmap"
	"mapposter/internal/storage"
)

// App bundles the collaborators every handler needs. Store is nil when the
// service runs in inline mode and streams posters back instead of uploading.
type App struct {
	Cfg      *infra.Config
	Log      infra.Logger
	Resolver *geo.Resolver
	Maps     staticmap.Fetcher
	Store    storage.Store
}

func NewApp(cfg *infra.Config, log infra.Logger, resolver *geo.Resolver, maps staticmap.Fetcher, store storage.Store) *App {
	return &App{Cfg: cfg, Log: log, Resolver: resolver, Maps: maps, Store: store}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the structured error body. Server faults log at error level,
// caller mistakes at debug.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	evt := a.Log.Debug()
	if status >= http.StatusInternalServerError {
		evt = a.Log.Error()
	}
	evt.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Int("status", status).
		Msg("request failed")

	a.json(w, status, map[string]any{"ok": false, "error": err.Error()})
}
