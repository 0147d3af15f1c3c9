package api

import (
	"net/http"

	"guardianrx/m/internal/activity"
)

// listActivity returns the audit log filtered to what the caller may see,
// newest first.
func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Activities()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load activity log")
		return
	}

	visible := activity.Filter(records, h.caller(r))
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}
	respondJSON(w, http.StatusOK, visible)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.Notifications()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}
