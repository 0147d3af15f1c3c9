package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guardianrx/m/domain"
)

var now = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

var (
	adminA = domain.Session{Name: "Admin A", Email: "a@guardianpharmacy.com", Role: domain.RoleAdmin}
	adminB = domain.Session{Name: "Admin B", Email: "b@guardianpharmacy.com", Role: domain.RoleAdmin}
	pharma = domain.Session{Name: "Pharmacist", Email: "p@guardianpharmacy.com", Role: domain.RolePharmacist}
)

func TestClassifyVisibility(t *testing.T) {
	tests := []struct {
		description string
		want        domain.Visibility
	}{
		{"Created staff account for John (pharmacist)", domain.VisibilityAdminOnly},
		{"Changed Password for STF002", domain.VisibilityAdminOnly},
		{"Deleted medicine: Panadol", domain.VisibilityAdminOnly},
		{"Updated permissions for Jane", domain.VisibilityAdminOnly},
		{"Added medicine: Panadol 500mg", domain.VisibilityAll},
		{"Exported inventory data", domain.VisibilityAll},
		{"Resolved alert for: Amoxicillin", domain.VisibilityAll},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVisibility(tt.description), tt.description)
	}
}

func TestVisibleTo(t *testing.T) {
	sensitiveByA := NewRecord("Created staff account for X", adminA, domain.VisibilityAdminOnly, now)
	plainByA := NewRecord("Added medicine: Panadol", adminA, domain.VisibilityAll, now)
	sensitiveByPharma := NewRecord("Changed password", pharma, domain.VisibilityAdminOnly, now)
	system := NewRecord("Session expired", domain.Session{}, domain.VisibilityAll, now)

	// Admin-only record by admin A: visible to A, hidden from admin B.
	assert.True(t, VisibleTo(sensitiveByA, adminA))
	assert.False(t, VisibleTo(sensitiveByA, adminB))

	// Admins see non-admin authored admin-only records.
	assert.True(t, VisibleTo(sensitiveByPharma, adminA))

	// Non-admins: own records and system records always, others' admin-only never.
	assert.True(t, VisibleTo(sensitiveByPharma, pharma))
	assert.False(t, VisibleTo(sensitiveByA, pharma))
	assert.True(t, VisibleTo(system, pharma))
	assert.True(t, VisibleTo(plainByA, pharma))
}

func TestFilterPreservesOrder(t *testing.T) {
	records := []domain.ActivityRecord{
		NewRecord("Added medicine: A", pharma, domain.VisibilityAll, now),
		NewRecord("Created staff account", adminA, domain.VisibilityAdminOnly, now),
		NewRecord("Added medicine: B", adminA, domain.VisibilityAll, now),
	}
	visible := Filter(records, pharma)
	assert.Len(t, visible, 2)
	assert.Equal(t, "Added medicine: A", visible[0].Description)
	assert.Equal(t, "Added medicine: B", visible[1].Description)
}

func TestNewRecordDefaults(t *testing.T) {
	rec := NewRecord("Scheduled stock check", domain.Session{}, "", now)
	assert.Equal(t, "System", rec.User)
	assert.Equal(t, domain.RoleSystem, rec.UserRole)
	assert.Equal(t, domain.VisibilityAll, rec.Visibility)

	tagged := NewRecord("Deleted medicine: X", pharma, "", now)
	assert.Equal(t, domain.VisibilityAdminOnly, tagged.Visibility)
}

func TestAppendCapsAtFifty(t *testing.T) {
	var log []domain.ActivityRecord
	for i := 0; i < MaxEntries+10; i++ {
		rec := NewRecord(fmt.Sprintf("event %d", i), pharma, domain.VisibilityAll, now)
		log = Append(log, rec)
	}
	assert.Len(t, log, MaxEntries)
	// Oldest evicted first: entry 0..9 gone, 10 is now the head.
	assert.Equal(t, "event 10", log[0].Description)
	assert.Equal(t, fmt.Sprintf("event %d", MaxEntries+9), log[len(log)-1].Description)
}
