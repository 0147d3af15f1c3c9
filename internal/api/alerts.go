package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"guardianrx/m/domain"
	"guardianrx/m/internal/alerts"
	"guardianrx/m/internal/export"
	"guardianrx/m/internal/metrics"
)

// refreshAlerts regenerates the alert set from the current inventory, merging
// prior resolutions, and persists the result.
func (h *Handler) refreshAlerts() ([]domain.Alert, error) {
	medicines, err := h.store.Medicines()
	if err != nil {
		return nil, err
	}
	prior, err := h.store.Alerts()
	if err != nil {
		return nil, err
	}
	derived := alerts.Derive(medicines, prior, h.now())
	if err := h.store.SaveAlerts(derived); err != nil {
		return nil, err
	}
	metrics.AlertsDerived.Add(float64(len(derived)))
	return derived, nil
}

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	derived, err := h.refreshAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive alerts")
		return
	}

	status := r.URL.Query().Get("status")
	tier := r.URL.Query().Get("type")
	out := make([]domain.Alert, 0, len(derived))
	for _, a := range derived {
		if status != "" && a.Status != status {
			continue
		}
		if tier != "" && string(a.AlertType) != tier {
			continue
		}
		out = append(out, a)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) alertStats(w http.ResponseWriter, r *http.Request) {
	derived, err := h.refreshAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts.Summarize(derived))
}

func (h *Handler) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	alertList, err := h.store.Alerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}

	actor := h.caller(r)
	if !alerts.Resolve(alertList, id, actor.Name, h.now()) {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	if err := h.store.SaveAlerts(alertList); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save alerts")
		return
	}

	metrics.AlertsResolved.Inc()
	h.logActivity("Resolved alert "+id, actor, domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (h *Handler) resolveAllCritical(w http.ResponseWriter, r *http.Request) {
	h.resolveBulk(w, r, "critical", alerts.ResolveAllCritical)
}

func (h *Handler) resolveAllAlerts(w http.ResponseWriter, r *http.Request) {
	h.resolveBulk(w, r, "all", alerts.ResolveAll)
}

func (h *Handler) resolveBulk(w http.ResponseWriter, r *http.Request, scope string, resolve func([]domain.Alert, string, time.Time) int) {
	alertList, err := h.store.Alerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}

	actor := h.caller(r)
	n := resolve(alertList, actor.Name, h.now())
	if err := h.store.SaveAlerts(alertList); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save alerts")
		return
	}

	metrics.AlertsResolved.Add(float64(n))
	h.logActivity(fmt.Sprintf("Resolved %d %s alerts", n, scope), actor, domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]int{"resolved": n})
}

// removeFromShelves deletes an expired medicine and its alerts in one step.
func (h *Handler) removeFromShelves(w http.ResponseWriter, r *http.Request) {
	medicineID := chi.URLParam(r, "medicineId")

	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	name := ""
	kept := medicines[:0]
	for _, m := range medicines {
		if m.ID == medicineID {
			name = m.Name
			continue
		}
		kept = append(kept, m)
	}
	if name == "" {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	if err := h.store.SaveMedicines(kept); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save inventory")
		return
	}

	alertList, alertErr := h.store.Alerts()
	if alertErr != nil {
		respondError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}
	if err := h.store.SaveAlerts(alerts.CascadeDelete(alertList, medicineID)); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save alerts")
		return
	}

	h.logActivity("Removed "+name+" from shelves", h.caller(r), domain.VisibilityAll)
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) exportAlertsCSV(w http.ResponseWriter, r *http.Request) {
	derived, err := h.refreshAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive alerts")
		return
	}
	h.logActivity("Exported alerts", h.caller(r), domain.VisibilityAll)
	respondCSV(w, "alerts.csv", export.AlertsCSV(derived))
}

func (h *Handler) disposalReport(w http.ResponseWriter, r *http.Request) {
	derived, err := h.refreshAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive alerts")
		return
	}
	h.logActivity("Generated disposal report", h.caller(r), domain.VisibilityAll)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="disposal-report.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.DisposalReport(derived, h.now())))
}
