// Package sqlite implements the transcript archive on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/xiangqi-client/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS room_messages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id   TEXT NOT NULL,
	room_name TEXT NOT NULL,
	sender    TEXT NOT NULL,
	body      TEXT NOT NULL,
	ts        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_room_messages_room ON room_messages(room_id, id);

CREATE TABLE IF NOT EXISTS private_messages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	correspondent TEXT NOT NULL,
	sender        TEXT NOT NULL,
	body          TEXT NOT NULL,
	ts            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_private_messages_user ON private_messages(correspondent, id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (creating if needed) the archive at dbPath.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRoomMessage appends one room chat line.
func (s *SQLiteStore) SaveRoomMessage(ctx context.Context, msg store.RoomMessage) error {
	query := `
		INSERT INTO room_messages (room_id, room_name, sender, body, ts)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		msg.RoomID, msg.RoomName, msg.Sender, msg.Body, msg.Timestamp); err != nil {
		return fmt.Errorf("insert room message: %w", err)
	}
	return nil
}

// SavePrivateMessage appends one direct message.
func (s *SQLiteStore) SavePrivateMessage(ctx context.Context, msg store.PrivateMessage) error {
	query := `
		INSERT INTO private_messages (correspondent, sender, body, ts)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		msg.Correspondent, msg.Sender, msg.Body, msg.Timestamp); err != nil {
		return fmt.Errorf("insert private message: %w", err)
	}
	return nil
}

// RoomHistory returns the most recent limit messages for a room, oldest
// first.
func (s *SQLiteStore) RoomHistory(ctx context.Context, roomID string, limit int) ([]store.RoomMessage, error) {
	query := `
		SELECT id, room_id, room_name, sender, body, ts
		FROM (
			SELECT id, room_id, room_name, sender, body, ts
			FROM room_messages
			WHERE room_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query room history: %w", err)
	}
	defer rows.Close()

	var out []store.RoomMessage
	for rows.Next() {
		var m store.RoomMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.RoomName, &m.Sender, &m.Body, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan room message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// PrivateHistory returns the most recent limit messages exchanged with a
// correspondent, oldest first.
func (s *SQLiteStore) PrivateHistory(ctx context.Context, correspondent string, limit int) ([]store.PrivateMessage, error) {
	query := `
		SELECT id, correspondent, sender, body, ts
		FROM (
			SELECT id, correspondent, sender, body, ts
			FROM private_messages
			WHERE correspondent = ?
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, correspondent, limit)
	if err != nil {
		return nil, fmt.Errorf("query private history: %w", err)
	}
	defer rows.Close()

	var out []store.PrivateMessage
	for rows.Next() {
		var m store.PrivateMessage
		if err := rows.Scan(&m.ID, &m.Correspondent, &m.Sender, &m.Body, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan private message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
