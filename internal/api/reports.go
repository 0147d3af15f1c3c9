package api

import (
	"net/http"

	"guardianrx/m/internal/report"
)

func (h *Handler) dashboardReport(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	respondJSON(w, http.StatusOK, report.BuildDashboard(medicines, h.now()))
}

func (h *Handler) keyMetrics(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	activities, err := h.store.Activities()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load activity log")
		return
	}
	alerts, err := h.refreshAlerts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive alerts")
		return
	}
	respondJSON(w, http.StatusOK, report.BuildKeyMetrics(medicines, activities, alerts, h.now()))
}

func (h *Handler) financialsReport(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	respondJSON(w, http.StatusOK, report.BuildFinancials(medicines, h.now()))
}

func (h *Handler) expiryAnalysis(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	respondJSON(w, http.StatusOK, report.BuildExpiryAnalysis(medicines, h.now()))
}

func (h *Handler) monthlyTrends(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.Medicines()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	respondJSON(w, http.StatusOK, report.BuildMonthlyTrends(medicines, h.now()))
}
