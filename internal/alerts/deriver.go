// Package alerts derives the alert set from the medicine collection. Alerts
// are regenerated wholesale on every load; resolutions recorded against a
// medicine survive regeneration through an explicit merge step.
package alerts

import (
	"fmt"
	"time"

	"guardianrx/m/domain"
	"guardianrx/m/internal/expiry"
)

// Derive produces the complete alert set for the given medicines. One alert is
// emitted per item whose tier is critical, warning or expired; safe items emit
// nothing. Prior alerts with status=resolved keep their resolution as long as
// the medicine still warrants an alert, instead of being reset to active.
func Derive(medicines []domain.MedicineItem, prior []domain.Alert, now time.Time) []domain.Alert {
	resolved := make(map[string]domain.Alert, len(prior))
	for _, a := range prior {
		if a.Status == domain.AlertResolved {
			resolved[a.MedicineID] = a
		}
	}

	out := make([]domain.Alert, 0, len(medicines))
	for _, m := range medicines {
		tier, days := expiry.ClassifyItem(m, now)
		if tier == domain.TierSafe {
			continue
		}

		alert := domain.Alert{
			ID:              fmt.Sprintf("ALERT-%s", m.ID),
			MedicineID:      m.ID,
			MedicineName:    m.Name,
			BatchNumber:     m.BatchNumber,
			ExpiryDate:      m.ExpiryDate,
			DaysUntilExpiry: days,
			Quantity:        m.Quantity,
			StoreNumber:     m.StoreNumber,
			ShelfNumber:     m.ShelfNumber,
			UnitPrice:       m.UnitPrice,
			Manufacturer:    m.Manufacturer,
			MedicineType:    m.Type,
			AlertType:       tier,
			Priority:        tier.Priority(),
			Status:          domain.AlertActive,
			CreatedAt:       now,
			CreatedBy:       domain.RoleSystem,
		}
		if prev, ok := resolved[m.ID]; ok {
			alert.Status = prev.Status
			alert.ResolvedAt = prev.ResolvedAt
			alert.ResolvedBy = prev.ResolvedBy
			alert.CreatedAt = prev.CreatedAt
		}
		out = append(out, alert)
	}
	return out
}

// Resolve marks the alert with the given id resolved. It returns false when no
// such alert exists.
func Resolve(alerts []domain.Alert, alertID, resolvedBy string, now time.Time) bool {
	for i := range alerts {
		if alerts[i].ID == alertID {
			markResolved(&alerts[i], resolvedBy, now)
			return true
		}
	}
	return false
}

// ResolveAllCritical resolves every unresolved critical alert and returns how
// many were touched.
func ResolveAllCritical(alerts []domain.Alert, resolvedBy string, now time.Time) int {
	n := 0
	for i := range alerts {
		if alerts[i].AlertType == domain.TierCritical && alerts[i].Status != domain.AlertResolved {
			markResolved(&alerts[i], resolvedBy, now)
			n++
		}
	}
	return n
}

// ResolveAll resolves every active alert and returns how many were touched.
func ResolveAll(alerts []domain.Alert, resolvedBy string, now time.Time) int {
	n := 0
	for i := range alerts {
		if alerts[i].Status == domain.AlertActive {
			markResolved(&alerts[i], resolvedBy, now)
			n++
		}
	}
	return n
}

func markResolved(a *domain.Alert, resolvedBy string, now time.Time) {
	a.Status = domain.AlertResolved
	t := now
	a.ResolvedAt = &t
	a.ResolvedBy = resolvedBy
}

// CascadeDelete drops every alert referencing the deleted medicine.
func CascadeDelete(alerts []domain.Alert, medicineID string) []domain.Alert {
	out := alerts[:0]
	for _, a := range alerts {
		if a.MedicineID != medicineID {
			out = append(out, a)
		}
	}
	return out
}

// Stats summarizes the alert set for dashboard badges and report figures.
// Counts cover active alerts only except Resolved; risk values sum
// quantity x unit price per tier.
type Stats struct {
	Critical     int     `json:"critical"`
	Warning      int     `json:"warning"`
	Expired      int     `json:"expired"`
	Resolved     int     `json:"resolved"`
	TotalActive  int     `json:"totalActive"`
	CriticalRisk float64 `json:"criticalRisk"`
	WarningRisk  float64 `json:"warningRisk"`
	ExpiredRisk  float64 `json:"expiredRisk"`
	TotalRisk    float64 `json:"totalRisk"`
}

// Summarize computes Stats over the full alert collection.
func Summarize(alerts []domain.Alert) Stats {
	var s Stats
	for _, a := range alerts {
		if a.Status == domain.AlertResolved {
			s.Resolved++
			continue
		}
		s.TotalActive++
		risk := a.RiskValue()
		s.TotalRisk += risk
		switch a.AlertType {
		case domain.TierCritical:
			s.Critical++
			s.CriticalRisk += risk
		case domain.TierWarning:
			s.Warning++
			s.WarningRisk += risk
		case domain.TierExpired:
			s.Expired++
			s.ExpiredRisk += risk
		}
	}
	return s
}
