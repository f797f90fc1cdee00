package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"mooers.net/trac64/internal/form"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed block store. All blocks live in one database
// file; forms within a block keep their save order.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS blocks (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS forms (
			block TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			body TEXT NOT NULL,
			gaps TEXT NOT NULL,
			PRIMARY KEY (block, seq)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// LoadAll returns the named block's forms in their save order.
func (s *SQLite) LoadAll(block string) ([]form.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT name, body, gaps FROM forms WHERE block = ? ORDER BY seq", block)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imgs []form.Image
	for rows.Next() {
		var img form.Image
		var gaps string
		if err := rows.Scan(&img.Name, &img.Body, &gaps); err != nil {
			return nil, err
		}
		if gaps != "" {
			if err := json.Unmarshal([]byte(gaps), &img.Gaps); err != nil {
				return nil, fmt.Errorf("block %s, form %s: %w", block, img.Name, err)
			}
		}
		imgs = append(imgs, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if imgs == nil {
		// a block saved empty has no form rows but is still a block
		var name string
		err := s.db.QueryRow("SELECT name FROM blocks WHERE name = ?", block).Scan(&name)
		if err == sql.ErrNoRows {
			return nil, ErrNoBlock
		}
		if err != nil {
			return nil, err
		}
		return []form.Image{}, nil
	}
	return imgs, nil
}

// SaveAll replaces the named block's contents.
func (s *SQLite) SaveAll(block string, imgs []form.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO blocks (name) VALUES (?) ON CONFLICT(name) DO NOTHING", block); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM forms WHERE block = ?", block); err != nil {
		return err
	}
	for seq, img := range imgs {
		gaps := ""
		if len(img.Gaps) > 0 {
			raw, err := json.Marshal(img.Gaps)
			if err != nil {
				return err
			}
			gaps = string(raw)
		}
		_, err := tx.Exec(
			"INSERT INTO forms (block, seq, name, body, gaps) VALUES (?, ?, ?, ?, ?)",
			block, seq, img.Name, img.Body, gaps)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Erase removes the named block.
func (s *SQLite) Erase(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM blocks WHERE name = ?", block)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoBlock
	}
	if _, err := tx.Exec("DELETE FROM forms WHERE block = ?", block); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) getMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}
