package store

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardianrx/m/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMissingKeysReadEmpty(t *testing.T) {
	s := openTestStore(t)

	medicines, err := s.Medicines()
	require.NoError(t, err)
	assert.Empty(t, medicines)

	sess, err := s.Session()
	require.NoError(t, err)
	assert.False(t, sess.IsLoggedIn)

	settings, err := s.Settings()
	require.NoError(t, err)
	assert.Empty(t, settings)
}

func TestMedicineRoundTrip(t *testing.T) {
	s := openTestStore(t)

	items := []domain.MedicineItem{{
		ID:          "MED-1",
		Name:        "Panadol 500mg",
		BatchNumber: "BATCH-2024-001",
		Quantity:    100,
		UnitPrice:   1500,
		ExpiryDate:  domain.NewDate(2026, time.June, 30),
		DateAdded:   time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, s.SaveMedicines(items))

	loaded, err := s.Medicines()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Panadol 500mg", loaded[0].Name)
	assert.Equal(t, "2026-06-30", loaded[0].ExpiryDate.String())
}

func TestCorruptBlobReadsEmpty(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.saveRaw(KeyMedicines, []byte("{not json")))

	medicines, err := s.Medicines()
	require.NoError(t, err)
	assert.Empty(t, medicines)
}

func TestLastWriteWins(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveStaff([]domain.StaffAccount{{ID: 1, Name: "First"}}))
	require.NoError(t, s.SaveStaff([]domain.StaffAccount{{ID: 2, Name: "Second"}}))

	staff, err := s.Staff()
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Second", staff[0].Name)
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	sess := domain.Session{
		ID:         1,
		Name:       "Isimbi Gloria",
		Email:      "admin@guardianpharmacy.com",
		Role:       domain.RoleAdmin,
		IsLoggedIn: true,
		LoginTime:  time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveSession(sess))

	loaded, err := s.Session()
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}
