package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tazhate/tripbot/internal/domain"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// Logical collection keys. They share one key-value namespace.
const (
	KeyFlightReminders   = "santiagoFlightReminders"
	KeyLuggageChecklist  = "santiagoLuggageChecklist"
	KeyItineraryProgress = "santiagoItineraryProgress"
	KeyNotificationPerm  = "notificationPermission"
)

var ErrNotFound = errors.New("not found")

type Storage struct {
	db  *sql.DB
	log *zap.Logger
}

func New(dbPath string, log *zap.Logger) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db, log: log.Named("storage")}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS trip_items (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT DEFAULT '',
			date TEXT DEFAULT '',
			file_data TEXT DEFAULT '',
			file_name TEXT DEFAULT '',
			file_type TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trip_items_category ON trip_items(category)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// === Key-value blobs ===

// Get returns the raw blob stored under key, or ErrNotFound.
func (s *Storage) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put replaces the blob stored under key.
func (s *Storage) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return err
}

// Load decodes the collection saved under key into dst. A missing key or a
// blob that fails to decode leaves dst untouched and reports false.
func (s *Storage) Load(key string, dst any) bool {
	data, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.Warn("load collection", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("decode collection", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Save serializes value and replaces whatever was stored under key.
func (s *Storage) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// === Trip items ===

func (s *Storage) CreateTripItem(t *domain.TripItem) error {
	_, err := s.db.Exec(
		`INSERT INTO trip_items (id, category, title, description, date, file_data, file_name, file_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Category, t.Title, t.Description, t.Date, t.FileData, t.FileName, t.FileType,
	)
	return err
}

func (s *Storage) GetTripItem(id string) (*domain.TripItem, error) {
	t := &domain.TripItem{}
	err := s.db.QueryRow(
		`SELECT id, category, title, description, date, file_data, file_name, file_type
		 FROM trip_items WHERE id = ?`, id,
	).Scan(&t.ID, &t.Category, &t.Title, &t.Description, &t.Date, &t.FileData, &t.FileName, &t.FileType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (s *Storage) ListTripItems() ([]*domain.TripItem, error) {
	rows, err := s.db.Query(
		`SELECT id, category, title, description, date, file_data, file_name, file_type
		 FROM trip_items ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.TripItem
	for rows.Next() {
		t := &domain.TripItem{}
		if err := rows.Scan(&t.ID, &t.Category, &t.Title, &t.Description, &t.Date, &t.FileData, &t.FileName, &t.FileType); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (s *Storage) UpdateTripItem(t *domain.TripItem) error {
	_, err := s.db.Exec(
		`UPDATE trip_items SET category = ?, title = ?, description = ?, date = ?,
		 file_data = ?, file_name = ?, file_type = ? WHERE id = ?`,
		t.Category, t.Title, t.Description, t.Date, t.FileData, t.FileName, t.FileType, t.ID,
	)
	return err
}

func (s *Storage) DeleteTripItem(id string) error {
	_, err := s.db.Exec(`DELETE FROM trip_items WHERE id = ?`, id)
	return err
}
