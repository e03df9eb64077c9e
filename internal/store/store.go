// Package store defines the local transcript archive: chat and private
// messages this client has seen, persisted for later review. The archive is
// write-behind and optional; the in-memory mirror never reads from it.
package store

import "context"

// RoomMessage is one archived room chat line.
type RoomMessage struct {
	ID        int64
	RoomID    string
	RoomName  string
	Sender    string
	Body      string
	Timestamp string
}

// PrivateMessage is one archived direct message.
type PrivateMessage struct {
	ID            int64
	Correspondent string
	Sender        string
	Body          string
	Timestamp     string
}

// Store persists transcripts.
type Store interface {
	SaveRoomMessage(ctx context.Context, msg RoomMessage) error
	SavePrivateMessage(ctx context.Context, msg PrivateMessage) error

	// RoomHistory returns the most recent limit messages for a room,
	// oldest first.
	RoomHistory(ctx context.Context, roomID string, limit int) ([]RoomMessage, error)
	// PrivateHistory returns the most recent limit messages exchanged with
	// a correspondent, oldest first.
	PrivateHistory(ctx context.Context, correspondent string, limit int) ([]PrivateMessage, error)

	Close() error
}
