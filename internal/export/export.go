// Package export renders download artifacts: CSV files with every field
// double-quote wrapped and currency shown as "UGX <grouped-thousands>", an
// Excel workbook for inventory, and the plain-text disposal report.
package export

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"guardianrx/m/domain"
	"guardianrx/m/internal/expiry"
)

const displayDate = "Jan 2, 2006"

// FormatUGX renders an amount as "UGX 1,234,567", rounding to whole shillings.
func FormatUGX(amount float64) string {
	return "UGX " + groupThousands(int64(math.Round(amount)))
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return sign + strings.Join(parts, ",")
}

// writeRow appends one CSV row with every field quoted.
func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// InventoryCSV builds the inventory export with the live expiry status column.
func InventoryCSV(medicines []domain.MedicineItem, now time.Time) string {
	var b strings.Builder
	b.WriteString("Medicine Name,Batch Number,Quantity,Expiry Date,Store,Shelf,Status,Unit Price\n")
	for _, m := range medicines {
		tier, _ := expiry.ClassifyItem(m, now)
		writeRow(&b,
			m.Name,
			m.BatchNumber,
			fmt.Sprintf("%d", m.Quantity),
			m.ExpiryDate.Format(displayDate),
			m.StoreNumber,
			m.ShelfNumber,
			statusLabel(tier),
			FormatUGX(m.UnitPrice),
		)
	}
	return b.String()
}

// AlertsCSV builds the alert centre export.
func AlertsCSV(alerts []domain.Alert) string {
	var b strings.Builder
	b.WriteString("Medicine Name,Batch Number,Expiry Date,Days Left,Alert Type,Status,Location,Quantity,Risk Value\n")
	for _, a := range alerts {
		daysLeft := "EXPIRED"
		if a.DaysUntilExpiry > 0 {
			daysLeft = fmt.Sprintf("%d", a.DaysUntilExpiry)
		}
		writeRow(&b,
			a.MedicineName,
			a.BatchNumber,
			a.ExpiryDate.Format(displayDate),
			daysLeft,
			string(a.AlertType),
			a.Status,
			a.StoreNumber+"/"+a.ShelfNumber,
			fmt.Sprintf("%d", a.Quantity),
			FormatUGX(a.RiskValue()),
		)
	}
	return b.String()
}

// StaffCSV builds the staff roster export. Passwords never leave the store.
func StaffCSV(staff []domain.StaffAccount) string {
	var b strings.Builder
	b.WriteString("ID,Name,Email,Role,Status,Phone,Last Login,Created Date\n")
	for _, s := range staff {
		lastLogin := "Never"
		if s.LastLogin != nil {
			lastLogin = s.LastLogin.Format(displayDate)
		}
		writeRow(&b,
			s.StaffTag(),
			s.Name,
			s.Email,
			s.Role,
			s.Status,
			s.Phone,
			lastLogin,
			s.CreatedAt.Format(displayDate),
		)
	}
	return b.String()
}

// DisposalReport lists expired, unresolved items for physical disposal.
func DisposalReport(alerts []domain.Alert, now time.Time) string {
	var b strings.Builder
	b.WriteString("GUARDIAN HEALTH PHARMACY - DISPOSAL REPORT\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format(displayDate))
	b.WriteString("EXPIRED ITEMS FOR DISPOSAL:\n\n")

	n := 0
	for _, a := range alerts {
		if a.AlertType != domain.TierExpired || a.Status == domain.AlertResolved {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s (Batch: %s)\n", n, a.MedicineName, a.BatchNumber)
		fmt.Fprintf(&b, "   Quantity: %d units\n", a.Quantity)
		fmt.Fprintf(&b, "   Expired: %s\n", a.ExpiryDate.Format(displayDate))
		fmt.Fprintf(&b, "   Location: %s/%s\n\n", a.StoreNumber, a.ShelfNumber)
	}
	return b.String()
}

// InventoryXLSX builds an Excel workbook of the inventory.
func InventoryXLSX(medicines []domain.MedicineItem, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Inventory"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"Medicine Name", "Batch Number", "Quantity", "Expiry Date", "Store", "Shelf", "Status", "Unit Price", "Selling Price", "Risk Value"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, m := range medicines {
		tier, _ := expiry.ClassifyItem(m, now)
		row := []any{
			m.Name,
			m.BatchNumber,
			m.Quantity,
			m.ExpiryDate.String(),
			m.StoreNumber,
			m.ShelfNumber,
			statusLabel(tier),
			m.UnitPrice,
			m.SellingPrice,
			m.RiskValue(),
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func statusLabel(t domain.Tier) string {
	switch t {
	case domain.TierExpired:
		return "Expired"
	case domain.TierCritical:
		return "Critical"
	case domain.TierWarning:
		return "Warning"
	default:
		return "Safe"
	}
}
