package ingest

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestParseCSVSkipsHeader(t *testing.T) {
	csv := `Medicine Name,Batch Number,Quantity,Expiry Date,Store Number,Shelf Number,Unit Price,Manufacturer,Medicine Type
Panadol 500mg,BATCH-2024-001,100,2026-12-31,STORE-001,SHELF-A1,1500,GSK,tablet
Amoxicillin 250mg,BATCH-2024-002,50,2026-11-30,STORE-001,SHELF-B2,3000,Cipla,capsule`

	res, err := ParseCSV(strings.NewReader(csv), now, "Isimbi Gloria", discard)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Zero(t, res.Skipped)

	first := res.Items[0]
	assert.Equal(t, "Panadol 500mg", first.Name)
	assert.Equal(t, "BATCH-2024-001", first.BatchNumber)
	assert.Equal(t, 100, first.Quantity)
	assert.Equal(t, "2026-12-31", first.ExpiryDate.String())
	assert.Equal(t, float64(1500), first.UnitPrice)
	assert.Equal(t, float64(1875), first.SellingPrice) // 25% markup
	assert.Equal(t, "tablet", first.Type)
	assert.Equal(t, "Isimbi Gloria", first.AddedBy)
}

func TestParseCSVNoHeader(t *testing.T) {
	csv := `Panadol 500mg,BATCH-1,10,2026-12-31`
	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "STORE-001", res.Items[0].StoreNumber)
	assert.Equal(t, "SHELF-A1", res.Items[0].ShelfNumber)
	assert.Equal(t, "Unknown Manufacturer", res.Items[0].Manufacturer)
}

func TestParseCSVSkipsShortAndBlankRows(t *testing.T) {
	csv := `Panadol,BATCH-1,10,2026-12-31
incomplete,row
,,10,2026-12-31
Aspirin,BATCH-2,5,2026-10-01`

	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Skipped)
}

func TestParseCSVDefaults(t *testing.T) {
	csv := `Panadol,BATCH-1,not-a-number,never`
	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	item := res.Items[0]
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, float64(0), item.UnitPrice)
	// Unparseable date defaults to one year from import time.
	assert.Equal(t, "2026-03-10", item.ExpiryDate.String())
}

func TestParseCSVAlternativeDateFormats(t *testing.T) {
	csv := `Panadol,BATCH-1,10,2026/06/30`
	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-30", res.Items[0].ExpiryDate.String())
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), now, "tester", discard)
	assert.ErrorIs(t, err, ErrNoValidRows)

	_, err = ParseCSV(strings.NewReader("Medicine Name,Batch,Qty,Expiry\n"), now, "tester", discard)
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestParseCSVQuotedFields(t *testing.T) {
	csv := `"Panadol, Extra","BATCH-1",10,2026-12-31`
	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	assert.Equal(t, "Panadol, Extra", res.Items[0].Name)
}

func TestUniqueIDsPerRow(t *testing.T) {
	csv := `Panadol,BATCH-1,10,2026-12-31
Aspirin,BATCH-2,5,2026-10-01`
	res, err := ParseCSV(strings.NewReader(csv), now, "tester", discard)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.NotEqual(t, res.Items[0].ID, res.Items[1].ID)
}
