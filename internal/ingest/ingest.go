// Package ingest parses uploaded stock files (CSV and Excel) into medicine
// items. Rows are forgiving: malformed rows are skipped and logged, numeric
// fields default to zero, and unparseable dates default to one year out.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"guardianrx/m/domain"
)

// ErrNoValidRows aborts an import that produced nothing usable.
var ErrNoValidRows = errors.New("no valid medicines found in file")

// DefaultMarkup is applied to the unit price to derive a selling price when
// the file carries none.
const DefaultMarkup = 1.25

// Column order: name, batchNumber, quantity, expiryDate, storeNumber,
// shelfNumber, unitPrice, manufacturer, type, supplier.
const minColumns = 4

// Result is the outcome of parsing one upload.
type Result struct {
	Items   []domain.MedicineItem
	Skipped int
}

// ParseCSV reads a stock CSV. A leading header row is auto-detected and
// skipped.
func ParseCSV(r io.Reader, now time.Time, addedBy string, log *slog.Logger) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("unreadable csv row, skipping", "error", err)
			continue
		}
		rows = append(rows, record)
	}
	return buildItems(rows, now, addedBy, log)
}

// ParseXLSX reads the first sheet of a stock workbook.
func ParseXLSX(r io.Reader, now time.Time, addedBy string, log *slog.Logger) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, ErrNoValidRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return buildItems(rows, now, addedBy, log)
}

func buildItems(rows [][]string, now time.Time, addedBy string, log *slog.Logger) (Result, error) {
	var res Result
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		item, ok := parseRow(row, i, now, addedBy)
		if !ok {
			res.Skipped++
			log.Warn("skipping invalid import row", "row", i+1)
			continue
		}
		res.Items = append(res.Items, item)
	}
	if len(res.Items) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

// isHeaderRow checks whether the first cell looks like a column title.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(row[0])
	return strings.Contains(first, "medicine") ||
		strings.Contains(first, "name") ||
		strings.Contains(first, "drug")
}

func parseRow(row []string, index int, now time.Time, addedBy string) (domain.MedicineItem, bool) {
	if len(row) < minColumns {
		return domain.MedicineItem{}, false
	}
	for _, cell := range row[:minColumns] {
		if strings.TrimSpace(cell) == "" {
			return domain.MedicineItem{}, false
		}
	}

	unitPrice := parseFloatField(cell(row, 6))
	item := domain.MedicineItem{
		ID:           fmt.Sprintf("MED-%d-%d", now.UnixMilli(), index),
		Name:         strings.TrimSpace(row[0]),
		BatchNumber:  strings.TrimSpace(row[1]),
		Quantity:     parseIntField(row[2]),
		ExpiryDate:   parseExpiryDate(row[3], now),
		StoreNumber:  fieldOr(cell(row, 4), "STORE-001"),
		ShelfNumber:  fieldOr(cell(row, 5), "SHELF-A1"),
		UnitPrice:    unitPrice,
		Manufacturer: fieldOr(cell(row, 7), "Unknown Manufacturer"),
		Type:         strings.ToLower(fieldOr(cell(row, 8), "tablet")),
		SellingPrice: unitPrice * DefaultMarkup,
		Supplier:     strings.TrimSpace(cell(row, 9)),
		DateAdded:    now,
		LastUpdated:  now,
		AddedBy:      addedBy,
	}
	return item, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func fieldOr(val, fallback string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func parseIntField(val string) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloatField(val string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseExpiryDate accepts YYYY-MM-DD plus a few common alternatives and
// defaults to one year from import time when nothing parses.
func parseExpiryDate(val string, now time.Time) domain.Date {
	trimmed := strings.TrimSpace(val)
	if d, err := domain.ParseDate(trimmed); err == nil {
		return d
	}
	for _, layout := range []string{"2006/01/02", "01/02/2006", "02-01-2006", time.RFC3339} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return domain.NewDate(t.Year(), t.Month(), t.Day())
		}
	}
	fallback := now.AddDate(1, 0, 0)
	return domain.NewDate(fallback.Year(), fallback.Month(), fallback.Day())
}
