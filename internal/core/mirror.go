package core

import (
	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
)

// Member is one roster entry. Handle is the opaque server-assigned
// connection identifier used to target moderation intents.
type Member struct {
	Handle   string
	Username string
	Role     string
	IsOwner  bool
	IsMuted  bool
}

// Game mirrors the authoritative game state. It is only ever replaced
// wholesale from event snapshots; the client never simulates a move.
type Game struct {
	Board         board.Board
	CurrentPlayer board.Color
	Status        string
	Winner        board.Color
	LastMove      *proto.Move
}

// Room mirrors the server's view of the current room. The mirror is the
// single writer; presentation reads it and nothing else.
type Room struct {
	ID         string
	Name       string
	JoinAs     string
	Players    []string
	Spectators int
	Members    []Member
	// RosterStale is set when an event changed membership without carrying
	// a roster snapshot; a get_member_list refresh is then in flight.
	RosterStale bool
	Game        Game
	Chat        []proto.ChatEntry
}

// PMEntry is one line of a private-message thread. Entries appended
// optimistically carry a correlation id and stay Pending until the server's
// echo confirms them.
type PMEntry struct {
	LocalID   string
	Sender    string
	Text      string
	Timestamp string
	Pending   bool
}

// Thread is the ordered private-message history with one correspondent.
type Thread struct {
	Correspondent string
	Entries       []PMEntry
}

// Apply dispatches one inbound event into the aggregate. It is the only
// mutation path for mirrored state. Events that do not fit the current
// screen are ignored with a debug log, never partially applied.
func (s *Session) Apply(ev proto.Event) {
	switch ev := ev.(type) {
	case *proto.UsernameSet:
		s.Conn = Authenticated
		s.Screen = ScreenLobby
		s.emit(proto.GetRoomList{})

	case *proto.ServerError:
		s.pushNotice(NoticeError, ev.Message)

	case *proto.RoomCreated:
		// The creator still has to join; replay the create password so
		// private rooms admit their own owner.
		s.emit(proto.JoinRoom{
			RoomID:   ev.RoomID,
			Password: s.pendingRoomPassword,
			JoinAs:   proto.RolePlayer,
		})

	case *proto.JoinedRoom:
		s.clearRoomState()
		s.Room = &Room{
			ID:         ev.RoomID,
			Name:       ev.RoomName,
			JoinAs:     ev.JoinAs,
			Players:    ev.Players,
			Spectators: ev.Spectators,
			Members:    membersFrom(ev.MemberList),
			Chat:       ev.ChatHistory,
			Game: Game{
				Board:         ev.GameState.Board,
				CurrentPlayer: ev.GameState.CurrentPlayer,
				Status:        ev.GameState.GameStatus,
				Winner:        ev.GameState.Winner,
				LastMove:      ev.LastMove,
			},
		}
		s.Screen = ScreenRoom

	case *proto.RoomList:
		s.Rooms = ev.Rooms

	case *proto.UserJoined:
		if !s.inRoom(ev) {
			return
		}
		s.replaceRoster(ev.MemberList, ev.Players, ev.Spectators)
		s.pushNotice(NoticeInfo, ev.Username+" joined as "+ev.JoinAs)

	case *proto.UserLeft:
		if !s.inRoom(ev) {
			return
		}
		// No roster snapshot on the wire for this event: mark stale and
		// ask for a fresh one rather than patching incrementally.
		s.Room.Players = ev.Players
		s.Room.Spectators = ev.Spectators
		s.Room.RosterStale = true
		s.emit(proto.GetMemberList{})
		s.pushNotice(NoticeInfo, ev.Username+" left")

	case *proto.MemberRoleChanged:
		if !s.inRoom(ev) {
			return
		}
		s.replaceRoster(ev.MemberList, ev.Players, ev.Spectators)
		s.pushNotice(NoticeInfo, ev.Username+" is now a "+ev.NewRole)

	case *proto.MemberKicked:
		if !s.inRoom(ev) {
			return
		}
		s.replaceRoster(ev.MemberList, ev.Players, ev.Spectators)
		s.pushNotice(NoticeWarn, ev.Username+" was kicked")

	case *proto.MemberMuted:
		if !s.inRoom(ev) {
			return
		}
		s.replaceRoster(ev.MemberList, s.Room.Players, s.Room.Spectators)
		s.pushNotice(NoticeInfo, ev.Username+" was muted")

	case *proto.MemberUnmuted:
		if !s.inRoom(ev) {
			return
		}
		s.replaceRoster(ev.MemberList, s.Room.Players, s.Room.Spectators)
		s.pushNotice(NoticeInfo, ev.Username+" was unmuted")

	case *proto.MemberListSnapshot:
		if !s.inRoom(ev) {
			return
		}
		s.Room.Members = membersFrom(ev.MemberList)
		s.Room.RosterStale = false

	case *proto.KickedFromRoom:
		s.clearRoomState()
		s.Screen = ScreenLobby
		s.pushNotice(NoticeWarn, ev.Message)
		s.emit(proto.GetRoomList{})

	case *proto.RoomDeleted:
		s.clearRoomState()
		s.Screen = ScreenLobby
		s.pushNotice(NoticeWarn, ev.Message)
		s.emit(proto.GetRoomList{})

	case *proto.LeftRoom:
		s.clearRoomState()
		s.Screen = ScreenLobby
		s.emit(proto.GetRoomList{})

	case *proto.ChatMessage:
		if !s.inRoom(ev) {
			return
		}
		s.Room.Chat = append(s.Room.Chat, proto.ChatEntry{
			Username:  ev.Username,
			Message:   ev.Message,
			Timestamp: ev.Timestamp,
		})

	case *proto.ChatRejected:
		s.pushNotice(NoticeWarn, ev.Reason)

	case *proto.PrivateMessage:
		th := s.Thread(ev.From)
		th.Entries = append(th.Entries, PMEntry{
			Sender:    ev.From,
			Text:      ev.Message,
			Timestamp: ev.Timestamp,
		})

	case *proto.PrivateMessageSent:
		s.confirmPrivateEcho(ev)

	case *proto.GameStarted:
		if !s.inRoom(ev) {
			return
		}
		s.Room.Game.Board = ev.Board
		s.Room.Game.CurrentPlayer = ev.CurrentPlayer
		s.Room.Game.Status = proto.StatusPlaying
		s.Room.Game.Winner = ""
		s.Room.Game.LastMove = nil
		s.selection = nil
		s.pushNotice(NoticeInfo, "game started")

	case *proto.MoveMade:
		if !s.inRoom(ev) {
			return
		}
		s.Room.Game = Game{
			Board:         ev.Board,
			CurrentPlayer: ev.CurrentPlayer,
			Status:        ev.GameStatus,
			Winner:        ev.Winner,
			LastMove:      ev.LastMove,
		}
		// A board refresh always clears the selection.
		s.selection = nil
		if ev.GameStatus == proto.StatusFinished && ev.Winner != "" {
			s.pushNotice(NoticeInfo, string(ev.Winner)+" wins")
		}

	case *proto.MoveRejected:
		// Game state is untouched; only the optimistic selection goes.
		s.selection = nil
		s.pushNotice(NoticeError, "move rejected: "+ev.Reason)

	case *proto.ConnectionLost:
		s.reset()
		s.pushNotice(NoticeError, "connection lost")

	default:
		s.log.Debug().Str("event_type", ev.Type()).Msg("event ignored")
	}
}

// inRoom guards room-scoped events against arriving outside a room.
func (s *Session) inRoom(ev proto.Event) bool {
	if s.Screen == ScreenRoom && s.Room != nil {
		return true
	}
	s.log.Debug().Str("event_type", ev.Type()).Msg("room event outside room")
	return false
}

// replaceRoster swaps the full membership state for the server-supplied
// snapshot. No entry from a prior snapshot survives.
func (s *Session) replaceRoster(members []proto.Member, players []string, spectators int) {
	s.Room.Members = membersFrom(members)
	s.Room.Players = players
	s.Room.Spectators = spectators
	s.Room.RosterStale = false
}

func membersFrom(list []proto.Member) []Member {
	out := make([]Member, 0, len(list))
	for _, m := range list {
		out = append(out, Member{
			Handle:   m.WebsocketID,
			Username: m.Username,
			Role:     m.Role,
			IsOwner:  m.IsOwner,
			IsMuted:  m.IsMuted,
		})
	}
	return out
}

// confirmPrivateEcho resolves the server's echo of an own message against
// the oldest matching pending entry instead of appending a duplicate.
func (s *Session) confirmPrivateEcho(ev *proto.PrivateMessageSent) {
	th := s.Thread(ev.To)
	for i := range th.Entries {
		e := &th.Entries[i]
		if e.Pending && e.Text == ev.Message {
			e.Pending = false
			e.Timestamp = ev.Timestamp
			s.log.Debug().Str("pm_id", e.LocalID).Str("to", ev.To).Msg("private message confirmed")
			return
		}
	}
	// No pending counterpart (e.g. history replay); append confirmed.
	th.Entries = append(th.Entries, PMEntry{
		Sender:    ev.From,
		Text:      ev.Message,
		Timestamp: ev.Timestamp,
	})
}
