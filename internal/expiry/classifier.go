// Package expiry classifies inventory items by how close they are to their
// expiry date. The same rule drives dashboard statistics, alert generation
// and table styling, so it lives in one place.
package expiry

import (
	"math"
	"time"

	"guardianrx/m/domain"
)

const (
	// CriticalWindowDays is the day-count at or below which an unexpired
	// item is critical.
	CriticalWindowDays = 7
	// WarningWindowDays is the day-count at or below which an unexpired,
	// non-critical item is a warning.
	WarningWindowDays = 30
)

// DaysUntil returns the signed calendar-day count from now to expiry.
// Fractional days round toward later: an item expiring in 6.1 days reads 7.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify maps an expiry date and the current instant onto a risk tier and
// the day count used for display.
//
// The expired check compares full timestamps while the day count is computed
// separately. Collapsing the two into a single day-count comparison
// misclassifies items on the boundary day whose expiry instant has not yet
// passed, so both comparisons are kept.
func Classify(expiry, now time.Time) (domain.Tier, int) {
	days := DaysUntil(expiry, now)
	switch {
	case !expiry.After(now):
		return domain.TierExpired, days
	case days <= CriticalWindowDays:
		return domain.TierCritical, days
	case days <= WarningWindowDays:
		return domain.TierWarning, days
	default:
		return domain.TierSafe, days
	}
}

// ClassifyItem is a convenience wrapper over Classify for stored items.
func ClassifyItem(m domain.MedicineItem, now time.Time) (domain.Tier, int) {
	return Classify(m.ExpiryDate.Time, now)
}
