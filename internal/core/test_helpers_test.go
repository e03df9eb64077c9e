package core

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
)

// recorder captures emitted intents for assertions.
type recorder struct {
	intents []proto.Intent
}

func (r *recorder) Send(in proto.Intent) error {
	r.intents = append(r.intents, in)
	return nil
}

func (r *recorder) drain() []proto.Intent {
	out := r.intents
	r.intents = nil
	return out
}

func (r *recorder) mustLast(t *testing.T) proto.Intent {
	t.Helper()
	if len(r.intents) == 0 {
		t.Fatal("expected an emitted intent, got none")
	}
	return r.intents[len(r.intents)-1]
}

func newTestSession(t *testing.T) (*Session, *recorder) {
	t.Helper()
	logger := zerolog.Nop()
	rec := &recorder{}
	s := New(&logger, rec)
	return s, rec
}

// authenticate brings a fresh session to the Lobby screen as name.
func authenticate(t *testing.T, s *Session, rec *recorder, name string) {
	t.Helper()
	if err := s.SetIdentity(name); err != nil {
		t.Fatalf("set identity: %v", err)
	}
	s.BeginConnect()
	s.ConnEstablished()
	s.Apply(&proto.UsernameSet{Username: name})
	if s.Screen != ScreenLobby || s.Conn != Authenticated {
		t.Fatalf("expected authenticated lobby, got screen=%v conn=%v", s.Screen, s.Conn)
	}
	rec.drain()
}

// testBoard builds a board with the given occupied cells.
func testBoard(cells map[board.Pos]board.Piece) board.Board {
	var b board.Board
	for p, piece := range cells {
		pc := piece
		b[p.Row][p.Col] = &pc
	}
	return b
}

// joinedRoom builds a joined_room snapshot with a playing game and a roster
// derived from the player list (first player owns the room).
func joinedRoom(players []string, localJoinAs, status string, cells map[board.Pos]board.Piece) *proto.JoinedRoom {
	members := make([]proto.Member, 0, len(players))
	for i, name := range players {
		members = append(members, proto.Member{
			WebsocketID: "ws-" + name,
			Username:    name,
			Role:        proto.RolePlayer,
			IsOwner:     i == 0,
		})
	}
	return &proto.JoinedRoom{
		RoomID:     "R1-id",
		RoomName:   "R1",
		JoinAs:     localJoinAs,
		Players:    players,
		MemberList: members,
		GameState: proto.GameSnapshot{
			Board:         testBoard(cells),
			CurrentPlayer: board.Red,
			GameStatus:    status,
		},
	}
}

// enterRoom applies a joined_room snapshot and clears any auto-emitted
// follow-ups.
func enterRoom(t *testing.T, s *Session, rec *recorder, ev *proto.JoinedRoom) {
	t.Helper()
	s.Apply(ev)
	if s.Screen != ScreenRoom || s.Room == nil {
		t.Fatalf("expected room screen after joined_room, got %v", s.Screen)
	}
	rec.drain()
}
