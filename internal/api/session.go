package api

import (
	"context"
	"time"

	"guardianrx/m/domain"
)

// touchSession refreshes the stored session's last-activity stamp when the
// request comes from the session's owner.
func (h *Handler) touchSession(email string) {
	sess, err := h.store.Session()
	if err != nil {
		h.log.Error("load session", "error", err)
		return
	}
	if !sess.IsLoggedIn || sess.Email != email {
		return
	}
	sess.LastActivity = h.now()
	if err := h.store.SaveSession(sess); err != nil {
		h.log.Error("save session", "error", err)
	}
}

// Janitor expires idle sessions. It polls on the given interval and logs out
// any session idle past the timeout, recording a system activity entry.
type Janitor struct {
	handler  *Handler
	timeout  time.Duration
	interval time.Duration
}

// NewJanitor builds a session janitor around the handler's store and clock.
func NewJanitor(h *Handler, timeout, interval time.Duration) *Janitor {
	return &Janitor{handler: h, timeout: timeout, interval: interval}
}

// Run blocks until ctx is done, sweeping once per interval.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep performs one expiry check. It returns true when a session was expired.
func (j *Janitor) Sweep() bool {
	h := j.handler
	sess, err := h.store.Session()
	if err != nil {
		h.log.Error("janitor: load session", "error", err)
		return false
	}
	if !sess.IsLoggedIn {
		return false
	}

	idle := h.now().Sub(sess.LastActivity)
	if idle < j.timeout {
		return false
	}

	sess.IsLoggedIn = false
	if err := h.store.SaveSession(sess); err != nil {
		h.log.Error("janitor: save session", "error", err)
		return false
	}

	h.log.Info("session expired for inactivity", "email", sess.Email, "idle", idle.String())
	h.logActivity("Session expired for "+sess.Name+" after inactivity", domain.Session{}, domain.VisibilityAll)
	return true
}
