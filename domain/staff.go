package domain

import (
	"fmt"
	"time"
)

const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleSystem     = "system"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// MaxAdmins caps the number of admin accounts the system will create.
const MaxAdmins = 2

// Permissions names the dashboard areas a staff account may use.
type Permissions struct {
	Inventory bool `json:"inventory"`
	Alerts    bool `json:"alerts"`
	Reports   bool `json:"reports"`
	Staff     bool `json:"staff"`
}

// AllPermissions is what admin accounts are granted at creation.
func AllPermissions() Permissions {
	return Permissions{Inventory: true, Alerts: true, Reports: true, Staff: true}
}

// StaffAccount is a pharmacy staff login. Password holds a bcrypt hash and is
// stripped from API responses.
type StaffAccount struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	Phone       string      `json:"phone,omitempty"`
	Status      string      `json:"status"`
	Permissions Permissions `json:"permissions"`
	Password    string      `json:"password,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
}

// StaffTag renders the display id used in exports and audit entries (STF001).
func (s StaffAccount) StaffTag() string {
	return fmt.Sprintf("STF%03d", s.ID)
}
