package handlers

import (
	"net/http"

	"server/internal/sqlinline"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if a.SQL != nil {
		if _, err := a.SQL.Exec(r.Context(), sqlinline.QHealthPing); err != nil {
			a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": status})
}
