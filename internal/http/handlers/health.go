package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, _ *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}
