package handlers

import "net/http"

// StatsGet serves the aggregate funding counters for dashboards.
func (a *App) StatsGet(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Ledger.Stats(r.Context())
	if err != nil {
		a.domainError(w, err, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, stats)
}
