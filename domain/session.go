package domain

import "time"

// Session is the currently authenticated identity, stored separately from the
// staff list. Logout flips IsLoggedIn rather than removing the record.
type Session struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	Permissions  Permissions `json:"permissions"`
	IsLoggedIn   bool        `json:"isLoggedIn"`
	LoginTime    time.Time   `json:"loginTime"`
	LastActivity time.Time   `json:"lastActivity"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
