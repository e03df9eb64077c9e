// Package core owns all mutable client state: the session state machine,
// the server-state mirror, and the interaction controller. Everything here
// runs on the single dispatch goroutine; there is no locking.
package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
)

// MaxUsernameLen is the display-name limit in code points.
const MaxUsernameLen = 20

// ConnState tracks the connection lifecycle.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Authenticated
)

// Screen is the top-level UI state. Transitions are driven exclusively by
// inbound events, never directly by user intents.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenLobby
	ScreenRoom
)

func (s Screen) String() string {
	switch s {
	case ScreenLobby:
		return "lobby"
	case ScreenRoom:
		return "room"
	default:
		return "login"
	}
}

// Sender transmits an intent over the connection. The connection manager
// guarantees at most one delivery, only while connected.
type Sender interface {
	Send(proto.Intent) error
}

// Session is the one aggregate holding identity, screen state, the
// room/game mirror, private-message threads, selection, and notices. All
// mutation funnels through Apply and the gesture methods.
type Session struct {
	log  *zerolog.Logger
	send Sender

	Identity string
	Conn     ConnState
	Screen   Screen

	// Lobby listing, refreshed via get_room_list.
	Rooms []proto.RoomInfo

	// Current room mirror; nil outside a room.
	Room *Room

	// Private-message threads keyed by correspondent, kept across rooms
	// for the lifetime of the connection.
	PMs map[string]*Thread

	selection *board.Pos
	rotation  bool
	notices   []Notice

	// Password used on create_room, replayed in the automatic join.
	pendingRoomPassword string
}

// New builds an empty session in the Login screen.
func New(logger *zerolog.Logger, send Sender) *Session {
	return &Session{
		log:  logger,
		send: send,
		PMs:  make(map[string]*Thread),
	}
}

// SetIdentity validates and records the display name. The name persists
// across reconnect attempts until an explicit logout.
func (s *Session) SetIdentity(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		err := clientError(ErrCodeEmptyUsername, "name cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		err := clientError(ErrCodeUsernameTooLong,
			fmt.Sprintf("name exceeds %d characters", MaxUsernameLen))
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	s.Identity = name
	return nil
}

// BeginConnect marks the dial in progress.
func (s *Session) BeginConnect() {
	s.Conn = Connecting
}

// ConnEstablished marks the channel up and emits the authentication intent
// carrying the identity.
func (s *Session) ConnEstablished() {
	s.Conn = Connected
	s.emit(proto.SetUsername{Username: s.Identity})
}

// ConnFailed reports a failed dial; the session stays on Login.
func (s *Session) ConnFailed(err error) {
	s.Conn = Disconnected
	s.pushNotice(NoticeError, fmt.Sprintf("could not connect: %v", err))
}

// Logout discards the identity and resets the session to Login. The caller
// closes the connection.
func (s *Session) Logout() {
	s.Identity = ""
	s.reset()
}

// reset drops everything but the identity and returns to Login.
func (s *Session) reset() {
	s.Conn = Disconnected
	s.Screen = ScreenLogin
	s.Rooms = nil
	s.clearRoomState()
	s.PMs = make(map[string]*Thread)
}

// clearRoomState drops the room mirror and all room-scoped local state.
func (s *Session) clearRoomState() {
	s.Room = nil
	s.selection = nil
	s.rotation = false
	s.pendingRoomPassword = ""
}

// Selection returns the currently selected logical cell, if any.
func (s *Session) Selection() (board.Pos, bool) {
	if s.selection == nil {
		return board.Pos{}, false
	}
	return *s.selection, true
}

// Rotation reports the user-toggled physical rotation for the current room
// view.
func (s *Session) Rotation() bool {
	return s.rotation
}

// LocalColor returns the local player's assigned color, or "" for
// spectators and outside rooms. Assignment follows roster order: the first
// player seat is red.
func (s *Session) LocalColor() board.Color {
	if s.Room == nil || len(s.Room.Players) == 0 {
		return ""
	}
	if s.Room.Players[0] == s.Identity {
		return board.Red
	}
	if len(s.Room.Players) > 1 && s.Room.Players[1] == s.Identity {
		return board.Black
	}
	return ""
}

// LocalRole returns this user's role in the current room.
func (s *Session) LocalRole() string {
	if s.Room == nil {
		return ""
	}
	for _, m := range s.Room.Members {
		if m.Username == s.Identity {
			return m.Role
		}
	}
	return s.Room.JoinAs
}

// IsOwner reports whether this user owns the current room. This is a UX
// courtesy only; the server re-checks every moderation intent.
func (s *Session) IsOwner() bool {
	if s.Room == nil {
		return false
	}
	for _, m := range s.Room.Members {
		if m.Username == s.Identity {
			return m.IsOwner
		}
	}
	return false
}

// Orientation returns the composed display transform for the current view:
// the color flip derived from the local color, then the manual rotation.
func (s *Session) Orientation() board.Orientation {
	return board.Orient(s.LocalColor(), s.rotation)
}

// Thread returns the private-message thread with the given correspondent,
// creating it if needed.
func (s *Session) Thread(correspondent string) *Thread {
	th, ok := s.PMs[correspondent]
	if !ok {
		th = &Thread{Correspondent: correspondent}
		s.PMs[correspondent] = th
	}
	return th
}

func (s *Session) emit(in proto.Intent) {
	if err := s.send.Send(in); err != nil {
		s.log.Warn().Err(err).Str("action", in.Action()).Msg("emit intent")
	}
}
