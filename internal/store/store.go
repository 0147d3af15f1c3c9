// Package store persists each collection as a whole JSON blob under a fixed
// key, preserving the read-full, mutate, write-full contract of the original
// dashboard while isolating it behind typed accessors.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"guardianrx/m/domain"
)

// Fixed blob keys, unchanged from the browser-storage layout.
const (
	KeyMedicines     = "pharmacy_medicines"
	KeyStaff         = "pharmacy_staff"
	KeyActivities    = "pharmacy_activities"
	KeyAlerts        = "pharmacy_alerts"
	KeyUser          = "pharmacy_user"
	KeyNotifications = "pharmacy_notifications"
	KeySettings      = "pharmacy_settings"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store is a whole-collection key-value store over SQLite. Writes are
// last-write-wins per collection; the mutex only prevents torn interleavings
// within one process.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
	mu  sync.Mutex
}

// Open connects to the SQLite database at dsn and ensures the kv table.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) loadRaw(key string) ([]byte, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *Store) saveRaw(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(value))
	return err
}

// loadCollection reads a JSON array blob. Missing or unparseable blobs read as
// an empty collection, never as a fatal error.
func loadCollection[T any](s *Store, key string) ([]T, error) {
	raw, err := s.loadRaw(key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn("corrupt collection blob, treating as empty", "key", key, "error", err)
		return []T{}, nil
	}
	return out, nil
}

func saveCollection[T any](s *Store, key string, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.saveRaw(key, raw)
}

func (s *Store) Medicines() ([]domain.MedicineItem, error) {
	return loadCollection[domain.MedicineItem](s, KeyMedicines)
}

func (s *Store) SaveMedicines(items []domain.MedicineItem) error {
	return saveCollection(s, KeyMedicines, items)
}

func (s *Store) Staff() ([]domain.StaffAccount, error) {
	return loadCollection[domain.StaffAccount](s, KeyStaff)
}

func (s *Store) SaveStaff(staff []domain.StaffAccount) error {
	return saveCollection(s, KeyStaff, staff)
}

func (s *Store) Activities() ([]domain.ActivityRecord, error) {
	return loadCollection[domain.ActivityRecord](s, KeyActivities)
}

func (s *Store) SaveActivities(records []domain.ActivityRecord) error {
	return saveCollection(s, KeyActivities, records)
}

func (s *Store) Alerts() ([]domain.Alert, error) {
	return loadCollection[domain.Alert](s, KeyAlerts)
}

func (s *Store) SaveAlerts(alerts []domain.Alert) error {
	return saveCollection(s, KeyAlerts, alerts)
}

func (s *Store) Notifications() ([]domain.Notification, error) {
	return loadCollection[domain.Notification](s, KeyNotifications)
}

func (s *Store) SaveNotifications(notifications []domain.Notification) error {
	return saveCollection(s, KeyNotifications, notifications)
}

// Session loads the single session object. Missing or corrupt blobs read as a
// logged-out zero session.
func (s *Store) Session() (domain.Session, error) {
	raw, err := s.loadRaw(KeyUser)
	if err != nil {
		return domain.Session{}, err
	}
	if len(raw) == 0 {
		return domain.Session{}, nil
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("corrupt session blob, treating as logged out", "error", err)
		return domain.Session{}, nil
	}
	return sess, nil
}

func (s *Store) SaveSession(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.saveRaw(KeyUser, raw)
}

// Settings loads the auxiliary settings map.
func (s *Store) Settings() (map[string]any, error) {
	raw, err := s.loadRaw(KeySettings)
	if err != nil {
		return nil, err
	}
	settings := map[string]any{}
	if len(raw) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn("corrupt settings blob, treating as empty", "error", err)
		return map[string]any{}, nil
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.saveRaw(KeySettings, raw)
}
