// Package report computes the dashboard and reports-page figures. The
// financial numbers are deliberate constant-multiplier heuristics carried over
// from the original dashboard, not a financial model.
package report

import (
	"time"

	"guardianrx/m/domain"
	"guardianrx/m/internal/expiry"
)

// MonthlySavingsPerCritical is the fixed per-item shilling figure used for the
// monthly savings estimate.
const MonthlySavingsPerCritical = 25000

// WastePreventedFactor scales savings down to the waste-prevention estimate.
const WastePreventedFactor = 0.7

// PotentialLossFactor estimates how much of the at-risk value is actually lost.
const PotentialLossFactor = 0.3

// Dashboard holds the admin landing page statistics.
type Dashboard struct {
	TotalMedicines  int     `json:"totalMedicines"`
	CriticalCount   int     `json:"criticalCount"`
	WarningCount    int     `json:"warningCount"`
	SafeCount       int     `json:"safeCount"`
	ExpiredCount    int     `json:"expiredCount"`
	TotalStockValue float64 `json:"totalStockValue"`
	ComplianceScore int     `json:"complianceScore"`
	MonthlySavings  float64 `json:"monthlySavings"`
	WastePrevented  float64 `json:"wastePrevented"`
}

// BuildDashboard classifies the whole inventory and derives the landing-page
// figures: compliance drops 10 points per critical item, monthly savings is
// criticalCount x a fixed constant, waste prevented is 70% of that.
func BuildDashboard(medicines []domain.MedicineItem, now time.Time) Dashboard {
	var d Dashboard
	d.TotalMedicines = len(medicines)
	for _, m := range medicines {
		tier, _ := expiry.ClassifyItem(m, now)
		switch tier {
		case domain.TierExpired:
			d.ExpiredCount++
		case domain.TierCritical:
			d.CriticalCount++
		case domain.TierWarning:
			d.WarningCount++
		default:
			d.SafeCount++
		}
		d.TotalStockValue += m.RiskValue()
	}

	if len(medicines) > 0 {
		d.ComplianceScore = max(0, 100-d.CriticalCount*10)
	}
	d.MonthlySavings = float64(d.CriticalCount) * MonthlySavingsPerCritical
	d.WastePrevented = d.MonthlySavings * WastePreventedFactor
	return d
}

// KeyMetrics holds the reports-page headline figures.
type KeyMetrics struct {
	TotalStockValue float64 `json:"totalStockValue"`
	WastePrevented  float64 `json:"wastePrevented"`
	ComplianceRate  int     `json:"complianceRate"`
	EfficiencyGain  int     `json:"efficiencyGain"`
}

// BuildKeyMetrics derives the headline figures. Waste prevented sums 70% of
// the stock value behind each active critical alert whose medicine still
// exists; compliance drops 10 points per expired item (100 on an empty
// inventory); efficiency grows with recent activity, capped at 95.
func BuildKeyMetrics(medicines []domain.MedicineItem, activities []domain.ActivityRecord, alerts []domain.Alert, now time.Time) KeyMetrics {
	var km KeyMetrics

	byID := make(map[string]domain.MedicineItem, len(medicines))
	expired := 0
	for _, m := range medicines {
		byID[m.ID] = m
		km.TotalStockValue += m.RiskValue()
		if tier, _ := expiry.ClassifyItem(m, now); tier == domain.TierExpired {
			expired++
		}
	}

	for _, a := range alerts {
		if a.AlertType != domain.TierCritical || a.Status != domain.AlertActive {
			continue
		}
		if m, ok := byID[a.MedicineID]; ok {
			km.WastePrevented += m.RiskValue() * WastePreventedFactor
		}
	}

	km.ComplianceRate = 100
	if len(medicines) > 0 {
		km.ComplianceRate = max(0, 100-expired*10)
	}

	recent := 0
	cutoff := now.AddDate(0, 0, -30)
	for _, act := range activities {
		if act.Timestamp.After(cutoff) {
			recent++
		}
	}
	km.EfficiencyGain = min(95, 50+recent*2)
	return km
}

// Financials holds the detailed financial-impact report.
type Financials struct {
	TotalStockValue float64 `json:"totalStockValue"`
	AtRiskValue     float64 `json:"atRiskValue"`
	PotentialLoss   float64 `json:"potentialLoss"`
	SavingsAmount   float64 `json:"savingsAmount"`
	ROIPercent      int     `json:"roiPercent"`
}

// BuildFinancials values the stock expiring within the warning window, then
// applies the loss and savings factors. ROI is savings over total stock value.
func BuildFinancials(medicines []domain.MedicineItem, now time.Time) Financials {
	var f Financials
	windowEnd := now.Add(expiry.WarningWindowDays * 24 * time.Hour)
	for _, m := range medicines {
		f.TotalStockValue += m.RiskValue()
		if !m.ExpiryDate.After(windowEnd) {
			f.AtRiskValue += m.RiskValue()
		}
	}
	f.PotentialLoss = f.AtRiskValue * PotentialLossFactor
	f.SavingsAmount = f.PotentialLoss * WastePreventedFactor
	if f.TotalStockValue > 0 {
		f.ROIPercent = int(f.SavingsAmount/f.TotalStockValue*100 + 0.5)
	}
	return f
}

// ExpiryBucket is one slice of the expiry-analysis chart.
type ExpiryBucket struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// BuildExpiryAnalysis buckets the inventory by tier for the analysis chart,
// pairing each count with the stock value it represents.
func BuildExpiryAnalysis(medicines []domain.MedicineItem, now time.Time) []ExpiryBucket {
	buckets := map[domain.Tier]*ExpiryBucket{
		domain.TierExpired:  {Label: "Expired"},
		domain.TierCritical: {Label: "Critical (≤7 days)"},
		domain.TierWarning:  {Label: "Warning (≤30 days)"},
		domain.TierSafe:     {Label: "Safe"},
	}
	for _, m := range medicines {
		tier, _ := expiry.ClassifyItem(m, now)
		buckets[tier].Count++
		buckets[tier].Value += m.RiskValue()
	}
	return []ExpiryBucket{
		*buckets[domain.TierExpired],
		*buckets[domain.TierCritical],
		*buckets[domain.TierWarning],
		*buckets[domain.TierSafe],
	}
}

// TrendPoint is one month of the synthetic stock-value trend series.
type TrendPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// BuildMonthlyTrends projects the current stock value backwards over six
// months with a fixed 8% monthly growth factor. Synthetic by design; the
// dashboard has no historical data to chart.
func BuildMonthlyTrends(medicines []domain.MedicineItem, now time.Time) []TrendPoint {
	base := 0.0
	for _, m := range medicines {
		base += m.RiskValue()
	}

	points := make([]TrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		growth := 1 + float64(5-i)*0.08
		points = append(points, TrendPoint{
			Month: month.Format("Jan 2006"),
			Value: base / 1.4 * growth,
		})
	}
	return points
}
