// Package sqlitestore implements ports.PersistenceAdapter backed by a
// SQLite database, following the teacher's sqlite adapter: WAL mode,
// a small pragma/schema batch run once at Open, and a transaction type
// for atomic multi-statement writes.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"

	"areacatalog/internal/domain"
	"areacatalog/internal/ports"
)

// Adapter implements ports.PersistenceAdapter over a SQLite database.
type Adapter struct {
	db *sql.DB
}

var _ ports.PersistenceAdapter = (*Adapter)(nil)

// Open creates/migrates the database at dbPath and returns an Adapter.
func Open(dbPath string) (*Adapter, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS areas (
			id            TEXT PRIMARY KEY,
			display_name  TEXT NOT NULL,
			level_key     TEXT NOT NULL,
			parent_id     TEXT NOT NULL DEFAULT '',
			geometry      TEXT NOT NULL,
			metadata      TEXT,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_areas_parent ON areas(parent_id);
		CREATE INDEX IF NOT EXISTS idx_areas_level  ON areas(level_key);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup schema: %w", err)
	}

	return &Adapter{db: db}, nil
}

// Close closes the underlying database connection.
func (a *Adapter) Close() error { return a.db.Close() }

// LoadAll returns every area stored in the database.
func (a *Adapter) LoadAll() ([]domain.Area, error) {
	rows, err := a.db.Query(`
		SELECT id, display_name, level_key, parent_id, geometry, metadata, created_at, updated_at
		FROM areas
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, area)
	}
	return out, rows.Err()
}

func scanArea(rows *sql.Rows) (domain.Area, error) {
	var a domain.Area
	var geomText string
	var metadata sql.NullString
	var createdAt, updatedAt int64

	if err := rows.Scan(&a.ID, &a.DisplayName, &a.LevelKey, &a.ParentID, &geomText, &metadata, &createdAt, &updatedAt); err != nil {
		return domain.Area{}, err
	}
	geom, err := geojson.UnmarshalGeometry([]byte(geomText))
	if err != nil {
		return domain.Area{}, fmt.Errorf("unmarshal geometry for %s: %w", a.ID, err)
	}
	a.Geometry = geom.Geometry()
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &a.Metadata); err != nil {
			return domain.Area{}, fmt.Errorf("unmarshal metadata for %s: %w", a.ID, err)
		}
	}
	return a, nil
}

// BatchWrite applies a Change Set inside a single transaction, so a
// storage failure never leaves the database half-written relative to
// the engine's already-mutated in-memory state.
func (a *Adapter) BatchWrite(cs domain.ChangeSet) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, area := range append(append([]domain.Area(nil), cs.Created...), cs.Modified...) {
		if err := upsertArea(tx, area); err != nil {
			return fmt.Errorf("upsert area %s: %w", area.ID, err)
		}
	}
	for _, id := range cs.Deleted {
		if _, err := tx.Exec(`DELETE FROM areas WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete area %s: %w", id, err)
		}
	}

	return tx.Commit()
}

func upsertArea(tx *sql.Tx, a domain.Area) error {
	var metadata []byte
	if len(a.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(a.Metadata)
		if err != nil {
			return err
		}
	}

	geomText, err := geojson.NewGeometry(a.Geometry).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geometry for %s: %w", a.ID, err)
	}

	_, err = tx.Exec(`
		INSERT INTO areas (id, display_name, level_key, parent_id, geometry, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			level_key    = excluded.level_key,
			parent_id    = excluded.parent_id,
			geometry     = excluded.geometry,
			metadata     = excluded.metadata,
			updated_at   = excluded.updated_at
	`, a.ID, a.DisplayName, a.LevelKey, a.ParentID, string(geomText), string(metadata), a.CreatedAt.Unix(), a.UpdatedAt.Unix())
	return err
}
