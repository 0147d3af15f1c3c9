package domain

import "time"

// Tier is the expiry-risk classification of an inventory item.
type Tier string

const (
	TierSafe     Tier = "safe"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierExpired  Tier = "expired"
)

// Priority is the staff-attention level attached to a derived alert.
type Priority string

const (
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priority maps a tier onto the alert priority it warrants. Safe items never
// produce alerts, so the zero Priority is returned for them.
func (t Tier) Priority() Priority {
	switch t {
	case TierExpired:
		return PriorityCritical
	case TierCritical:
		return PriorityHigh
	case TierWarning:
		return PriorityMedium
	}
	return ""
}

const (
	AlertActive   = "active"
	AlertResolved = "resolved"
)

// Alert is derived from the medicine collection, never independently authored.
// It carries a denormalized snapshot of the medicine so the alert centre can
// render without a second lookup.
type Alert struct {
	ID              string     `json:"id"`
	MedicineID      string     `json:"medicineId"`
	MedicineName    string     `json:"medicineName"`
	BatchNumber     string     `json:"batchNumber"`
	ExpiryDate      Date       `json:"expiryDate"`
	DaysUntilExpiry int        `json:"daysUntilExpiry"`
	Quantity        int        `json:"quantity"`
	StoreNumber     string     `json:"storeNumber"`
	ShelfNumber     string     `json:"shelfNumber"`
	UnitPrice       float64    `json:"unitPrice"`
	Manufacturer    string     `json:"manufacturer"`
	MedicineType    string     `json:"medicineType"`
	AlertType       Tier       `json:"alertType"`
	Priority        Priority   `json:"priority"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CreatedBy       string     `json:"createdBy"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy      string     `json:"resolvedBy,omitempty"`
}

// RiskValue mirrors MedicineItem.RiskValue using the snapshot on the alert.
func (a Alert) RiskValue() float64 {
	return float64(a.Quantity) * a.UnitPrice
}
