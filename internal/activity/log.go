// Package activity maintains the audit log: a capped FIFO list of records
// with role-based visibility.
package activity

import (
	"strings"
	"time"

	"guardianrx/m/domain"
)

// MaxEntries caps the stored log; oldest entries are evicted first.
const MaxEntries = 50

// sensitiveKeywords flag a description as admin-only when no explicit
// visibility was supplied at the call site.
var sensitiveKeywords = []string{
	"staff", "admin", "password", "user account", "permission",
	"role", "delete", "created account", "deleted account",
	"changed password", "updated permissions", "cleared activity",
}

// ClassifyVisibility infers a visibility from free text. Emissions should tag
// their own visibility; this keyword scan is the fallback for untyped ones.
func ClassifyVisibility(description string) domain.Visibility {
	lower := strings.ToLower(description)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return domain.VisibilityAdminOnly
		}
	}
	return domain.VisibilityAll
}

// NewRecord builds a record attributed to the given session. A zero session
// attributes the record to the system.
func NewRecord(description string, actor domain.Session, visibility domain.Visibility, now time.Time) domain.ActivityRecord {
	rec := domain.ActivityRecord{
		Description: description,
		User:        actor.Name,
		UserRole:    actor.Role,
		UserEmail:   actor.Email,
		Timestamp:   now,
		Visibility:  visibility,
	}
	if rec.User == "" {
		rec.User = "System"
		rec.UserRole = domain.RoleSystem
	}
	if rec.Visibility == "" {
		rec.Visibility = ClassifyVisibility(description)
	}
	return rec
}

// Append adds a record and trims the log to MaxEntries, dropping the oldest.
func Append(log []domain.ActivityRecord, rec domain.ActivityRecord) []domain.ActivityRecord {
	log = append(log, rec)
	if excess := len(log) - MaxEntries; excess > 0 {
		log = log[excess:]
	}
	return log
}

// VisibleTo decides whether the viewer may see the record.
//
// Admin viewers see everything except admin-only records authored by a
// different admin. Non-admin viewers see their own records, system records,
// and anything with "all" visibility.
func VisibleTo(rec domain.ActivityRecord, viewer domain.Session) bool {
	if viewer.IsAdmin() {
		hidden := rec.Visibility == domain.VisibilityAdminOnly &&
			rec.UserRole == domain.RoleAdmin &&
			rec.UserEmail != viewer.Email
		return !hidden
	}
	if rec.UserEmail != "" && rec.UserEmail == viewer.Email {
		return true
	}
	if rec.UserRole == domain.RoleSystem {
		return true
	}
	return rec.Visibility != domain.VisibilityAdminOnly
}

// Filter returns the records the viewer may see, preserving order.
func Filter(records []domain.ActivityRecord, viewer domain.Session) []domain.ActivityRecord {
	out := make([]domain.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if VisibleTo(rec, viewer) {
			out = append(out, rec)
		}
	}
	return out
}
