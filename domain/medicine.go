package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date serialized as YYYY-MM-DD. Expiry dates carry no
// time-of-day; an item expires at midnight UTC at the start of its date.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MedicineItem is a stocked medicine batch on a shelf.
type MedicineItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"genericName,omitempty"`
	Type         string    `json:"type"`
	Manufacturer string    `json:"manufacturer"`
	BatchNumber  string    `json:"batchNumber"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	SellingPrice float64   `json:"sellingPrice"`
	StoreNumber  string    `json:"storeNumber"`
	ShelfNumber  string    `json:"shelfNumber"`
	ExpiryDate   Date      `json:"expiryDate"`
	Supplier     string    `json:"supplier,omitempty"`
	DateAdded    time.Time `json:"dateAdded"`
	LastUpdated  time.Time `json:"lastUpdated"`
	AddedBy      string    `json:"addedBy"`
}

// RiskValue is the stock value at stake if the batch is lost to expiry.
func (m MedicineItem) RiskValue() float64 {
	return float64(m.Quantity) * m.UnitPrice
}

var (
	ErrPastExpiry     = errors.New("expiry date must be in the future")
	ErrDuplicateID    = errors.New("medicine id already exists")
	ErrMissingField   = errors.New("required field missing")
	ErrNegativeAmount = errors.New("quantity and prices must not be negative")
)

// Validate checks the invariants every stored item must satisfy.
func (m MedicineItem) Validate() error {
	for field, val := range map[string]string{
		"id":          m.ID,
		"name":        m.Name,
		"batchNumber": m.BatchNumber,
	} {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if m.Quantity < 0 || m.UnitPrice < 0 || m.SellingPrice < 0 {
		return ErrNegativeAmount
	}
	if m.ExpiryDate.IsZero() {
		return fmt.Errorf("%w: expiryDate", ErrMissingField)
	}
	return nil
}

// ValidateNew additionally rejects already-expired stock. The future-expiry
// rule applies only at create/edit entry, not to items already stored.
func (m MedicineItem) ValidateNew(now time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !m.ExpiryDate.After(now) {
		return ErrPastExpiry
	}
	return nil
}
