package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
)

// The interaction controller: turns validated user gestures into protocol
// intents. Gestures never mutate mirrored state directly; the server's
// events do that.

// ClickCell handles a board click at a display cell. Clicking an own-color
// piece selects it (replacing any prior selection); clicking any other cell
// while a selection exists submits the move and clears the selection
// immediately, before any server response. A later rejection surfaces an
// error but never restores the selection.
func (s *Session) ClickCell(display board.Pos) {
	if s.Screen != ScreenRoom || s.Room == nil {
		return
	}
	color := s.LocalColor()
	if color == "" || s.Room.Game.Status != proto.StatusPlaying {
		return
	}

	logical := s.Orientation().ToLogical(display)
	if !logical.InBounds() {
		return
	}

	if piece := s.Room.Game.Board.At(logical); piece != nil && piece.Color == color {
		s.selection = &logical
		return
	}
	if s.selection == nil {
		return
	}
	if s.Room.Game.CurrentPlayer != color {
		s.pushNotice(NoticeWarn, "not your turn")
		return
	}

	from := *s.selection
	s.selection = nil // optimistic: cleared on submission, not confirmation
	s.emit(proto.MakeMove{
		FromRow: from.Row,
		FromCol: from.Col,
		ToRow:   logical.Row,
		ToCol:   logical.Col,
	})
}

// ToggleRotation flips the physical board rotation. It is independent of
// color and role and lasts only for the current room view.
func (s *Session) ToggleRotation() {
	s.rotation = !s.rotation
}

// CreateRoom asks the server for a new room. A non-empty password makes it
// private. On room_created the session auto-joins as a player.
func (s *Session) CreateRoom(name, password string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		err := clientError(ErrCodeEmptyRoomName, "room name cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	s.pendingRoomPassword = password
	s.emit(proto.CreateRoom{RoomName: name, Password: password})
	return nil
}

// JoinRoom enters a listed room. For rooms known to be private an empty
// password is rejected locally.
func (s *Session) JoinRoom(roomID, password, joinAs string) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		err := clientError(ErrCodeEmptyRoomID, "room id cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	if joinAs != proto.RolePlayer {
		joinAs = proto.RoleSpectator
	}
	for _, r := range s.Rooms {
		if r.RoomID == roomID && r.IsPrivate && password == "" {
			err := clientError(ErrCodePasswordRequired, "room requires a password")
			s.pushNotice(NoticeError, err.Message)
			return err
		}
	}
	s.emit(proto.JoinRoom{RoomID: roomID, Password: password, JoinAs: joinAs})
	return nil
}

// RequestRooms refreshes the lobby listing.
func (s *Session) RequestRooms() {
	s.emit(proto.GetRoomList{})
}

// LeaveRoom requests to leave; the screen changes only on left_room.
func (s *Session) LeaveRoom() {
	s.emit(proto.LeaveRoom{})
}

// StartGame asks the server to start; only the owner will succeed.
func (s *Session) StartGame() {
	s.emit(proto.StartGame{})
}

// SendChat posts to the current room's chat. The line appears in the mirror
// only via the server's broadcast echo; chat is not optimistic.
func (s *Session) SendChat(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		err := clientError(ErrCodeEmptyMessage, "message cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	s.emit(proto.SendChat{Message: text})
	return nil
}

// SendPrivate sends a direct message and appends it to the thread
// optimistically, tagged with a correlation id. The private_message_sent
// echo confirms the entry instead of appending twice.
func (s *Session) SendPrivate(target, text string) error {
	target = strings.TrimSpace(target)
	text = strings.TrimSpace(text)
	if target == "" {
		err := clientError(ErrCodeEmptyTarget, "target user cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	if text == "" {
		err := clientError(ErrCodeEmptyMessage, "message cannot be empty")
		s.pushNotice(NoticeError, err.Message)
		return err
	}

	th := s.Thread(target)
	entry := PMEntry{
		LocalID: uuid.NewString(),
		Sender:  s.Identity,
		Text:    text,
		Pending: true,
	}
	th.Entries = append(th.Entries, entry)
	s.log.Debug().Str("pm_id", entry.LocalID).Str("to", target).Msg("private message queued")
	s.emit(proto.SendPrivate{TargetUsername: target, Message: text})
	return nil
}

// ChangeRole switches a member between player and spectator seats.
func (s *Session) ChangeRole(handle, newRole string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	if newRole != proto.RolePlayer {
		newRole = proto.RoleSpectator
	}
	s.emit(proto.ChangeMemberRole{TargetWebsocketID: handle, NewRole: newRole})
	return nil
}

// Mute silences a member in room chat.
func (s *Session) Mute(handle string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	s.emit(proto.MuteMember{TargetWebsocketID: handle})
	return nil
}

// Unmute lifts a mute.
func (s *Session) Unmute(handle string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	s.emit(proto.UnmuteMember{TargetWebsocketID: handle})
	return nil
}

// Kick removes a member from the room.
func (s *Session) Kick(handle string) error {
	if err := s.requireOwner(); err != nil {
		return err
	}
	s.emit(proto.KickMember{TargetWebsocketID: handle})
	return nil
}

// requireOwner gates moderation locally as a courtesy; the server remains
// the authority and re-checks every intent.
func (s *Session) requireOwner() error {
	if s.Screen != ScreenRoom || s.Room == nil {
		err := clientError(ErrCodeNotInRoom, "not in a room")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	if !s.IsOwner() {
		err := clientError(ErrCodeNotOwner, "only the room owner can do that")
		s.pushNotice(NoticeError, err.Message)
		return err
	}
	return nil
}
