package domain

import "time"

// Visibility controls who may view an activity record.
type Visibility string

const (
	VisibilityAll       Visibility = "all"
	VisibilityAdminOnly Visibility = "admin-only"
)

// ActivityRecord is one append-only audit-log entry.
type ActivityRecord struct {
	Description string     `json:"description"`
	User        string     `json:"user"`
	UserRole    string     `json:"userRole"`
	UserEmail   string     `json:"userEmail"`
	Timestamp   time.Time  `json:"timestamp"`
	Visibility  Visibility `json:"visibility"`
}

// Notification is an auxiliary header-badge entry, lightly used.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Priority  Priority  `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
