package persist

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fernvale/murmur/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS memories (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	recording_type TEXT NOT NULL,
	location       TEXT NOT NULL DEFAULT '',
	destination    TEXT NOT NULL DEFAULT '',
	audio_ref      TEXT NOT NULL,
	location_image TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL
);
`

// SQLite implements Collection on a single SQLite table. The seq column
// preserves insertion order; Save replaces the whole collection inside one
// transaction so readers never observe a partial state.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("persist: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load returns all records ordered by insertion sequence.
func (s *SQLite) Load() ([]models.Memory, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, description, recording_type, location, destination,
		       audio_ref, location_image, created_at
		FROM memories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("persist: load: %w", err)
	}
	defer rows.Close()

	memories := []models.Memory{}
	for rows.Next() {
		var m models.Memory
		var rtype string
		var created time.Time
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &rtype, &m.Location,
			&m.Destination, &m.AudioRef, &m.LocationImage, &created); err != nil {
			return nil, fmt.Errorf("persist: scan: %w", err)
		}
		m.Type = models.RecordingType(rtype)
		m.CreatedAt = created
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("persist: load: %w", err)
	}
	return memories, nil
}

// Save replaces the collection in one transaction.
func (s *SQLite) Save(memories []models.Memory) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("persist: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM memories`); err != nil {
		return fmt.Errorf("persist: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO memories (id, title, description, recording_type, location,
		                      destination, audio_ref, location_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range memories {
		if _, err := stmt.Exec(m.ID, m.Title, m.Description, string(m.Type),
			m.Location, m.Destination, m.AudioRef, m.LocationImage, m.CreatedAt); err != nil {
			return fmt.Errorf("persist: insert %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
