package handlers

import "net/http"

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if err := a.Ledger.Ping(r.Context()); err != nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
