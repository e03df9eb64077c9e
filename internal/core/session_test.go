package core

import (
	"testing"

	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
)

func TestAuthenticationEntersLobbyAndListsRooms(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.SetIdentity("Alice"); err != nil {
		t.Fatalf("set identity: %v", err)
	}
	s.BeginConnect()
	if s.Conn != Connecting {
		t.Fatalf("conn = %v, want Connecting", s.Conn)
	}
	s.ConnEstablished()

	intents := rec.drain()
	if len(intents) != 1 {
		t.Fatalf("expected exactly the auth intent, got %d", len(intents))
	}
	set, ok := intents[0].(proto.SetUsername)
	if !ok || set.Username != "Alice" {
		t.Fatalf("unexpected auth intent: %+v", intents[0])
	}

	s.Apply(&proto.UsernameSet{Username: "Alice"})
	if s.Screen != ScreenLobby || s.Conn != Authenticated {
		t.Fatalf("screen=%v conn=%v after username_set", s.Screen, s.Conn)
	}
	if _, ok := rec.mustLast(t).(proto.GetRoomList); !ok {
		t.Fatalf("expected room list refresh after authentication")
	}
}

func TestIdentityValidation(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.SetIdentity("   "); err == nil {
		t.Fatal("blank name should fail")
	}
	if err := s.SetIdentity("抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗"); err == nil {
		t.Fatal("21 code points should fail")
	}
	if err := s.SetIdentity("抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗抗"); err != nil {
		t.Fatalf("20 code points should pass: %v", err)
	}
	if len(s.Notices()) == 0 {
		t.Fatal("validation failures should surface notices")
	}
}

// Scenario: create_room → room_created → automatic join as player →
// joined_room → Room screen.
func TestCreateRoomAutoJoins(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	if err := s.CreateRoom("R1", ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	create, ok := rec.mustLast(t).(proto.CreateRoom)
	if !ok || create.RoomName != "R1" {
		t.Fatalf("unexpected create intent: %+v", rec.mustLast(t))
	}
	rec.drain()

	s.Apply(&proto.RoomCreated{RoomID: "R1-id", RoomName: "R1"})
	join, ok := rec.mustLast(t).(proto.JoinRoom)
	if !ok {
		t.Fatalf("expected auto join, got %+v", rec.mustLast(t))
	}
	if join.RoomID != "R1-id" || join.JoinAs != proto.RolePlayer {
		t.Fatalf("unexpected join intent: %+v", join)
	}

	s.Apply(joinedRoom([]string{"Alice"}, proto.RolePlayer, proto.StatusWaiting, nil))
	if s.Screen != ScreenRoom {
		t.Fatalf("screen = %v, want Room", s.Screen)
	}
	if s.Room.ID != "R1-id" || s.Room.Name != "R1" {
		t.Fatalf("room mirror not seeded: %+v", s.Room)
	}
}

func TestCreatePrivateRoomReplaysPassword(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	if err := s.CreateRoom("secret", "pw"); err != nil {
		t.Fatalf("create room: %v", err)
	}
	rec.drain()
	s.Apply(&proto.RoomCreated{RoomID: "S1", RoomName: "secret", IsPrivate: true})
	join := rec.mustLast(t).(proto.JoinRoom)
	if join.Password != "pw" {
		t.Fatalf("auto join should carry the create password, got %q", join.Password)
	}
}

// Scenario: local player red (roster first seat), colorFlip derived.
func TestColorAssignmentAndSelection(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying,
		map[board.Pos]board.Piece{
			{Row: 9, Col: 4}: {Type: board.King, Color: board.Red},
		}))

	if got := s.LocalColor(); got != board.Red {
		t.Fatalf("local color = %q, want red", got)
	}
	o := s.Orientation()
	if !o.ColorFlip || o.Rotation {
		t.Fatalf("orientation = %+v, want colorFlip only", o)
	}

	// Display (0,4) maps to logical (9,4) under the color flip.
	s.ClickCell(board.Pos{Row: 0, Col: 4})
	sel, ok := s.Selection()
	if !ok || sel != (board.Pos{Row: 9, Col: 4}) {
		t.Fatalf("selection = %+v ok=%v, want (9,4)", sel, ok)
	}
	if len(rec.drain()) != 0 {
		t.Fatal("selecting must not emit an intent")
	}
}

// Scenario: with (9,4) selected, clicking the cell mapping to logical (8,4)
// emits make_move and clears the selection before any response.
func TestMoveSubmissionClearsSelectionOptimistically(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying,
		map[board.Pos]board.Piece{
			{Row: 9, Col: 4}: {Type: board.King, Color: board.Red},
		}))

	s.ClickCell(board.Pos{Row: 0, Col: 4}) // select logical (9,4)
	s.ClickCell(board.Pos{Row: 1, Col: 4}) // target logical (8,4)

	mv, ok := rec.mustLast(t).(proto.MakeMove)
	if !ok {
		t.Fatalf("expected make_move, got %+v", rec.mustLast(t))
	}
	want := proto.MakeMove{FromRow: 9, FromCol: 4, ToRow: 8, ToCol: 4}
	if mv != want {
		t.Fatalf("move = %+v, want %+v", mv, want)
	}
	if _, still := s.Selection(); still {
		t.Fatal("selection must clear synchronously on submission")
	}
}

func TestSingleSelectionInvariant(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying,
		map[board.Pos]board.Piece{
			{Row: 9, Col: 4}: {Type: board.King, Color: board.Red},
			{Row: 9, Col: 3}: {Type: board.Advisor, Color: board.Red},
			{Row: 0, Col: 4}: {Type: board.King, Color: board.Black},
		}))

	// A run of clicks on own pieces keeps exactly one selection.
	s.ClickCell(board.Pos{Row: 0, Col: 4}) // logical (9,4)
	s.ClickCell(board.Pos{Row: 0, Col: 5}) // logical (9,3)
	sel, ok := s.Selection()
	if !ok || sel != (board.Pos{Row: 9, Col: 3}) {
		t.Fatalf("selection = %+v ok=%v, want replacement (9,3)", sel, ok)
	}
	rec.drain()
}

// Scenario: move_rejected with no selection → notice only, state unchanged.
func TestMoveRejectedLeavesGameStateAlone(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying,
		map[board.Pos]board.Piece{
			{Row: 9, Col: 4}: {Type: board.King, Color: board.Red},
		}))
	before := s.Room.Game

	s.Apply(&proto.MoveRejected{Reason: "blocked"})

	if s.Room.Game.CurrentPlayer != before.CurrentPlayer || s.Room.Game.Status != before.Status {
		t.Fatal("move_rejected must not touch game state")
	}
	if s.Room.Game.Board.At(board.Pos{Row: 9, Col: 4}) == nil {
		t.Fatal("board changed on rejection")
	}
	notices := s.Notices()
	if len(notices) == 0 || notices[len(notices)-1].Level != NoticeError {
		t.Fatalf("expected an error notice, got %+v", notices)
	}
	if s.Screen != ScreenRoom {
		t.Fatal("rejection must not force a screen transition")
	}
	if len(rec.drain()) != 0 {
		t.Fatal("rejection must not emit intents")
	}
}

// Scenario: kicked_from_room while in Room → Lobby, cleared mirror.
func TestKickedFromRoomReturnsToLobby(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Bob", "Alice"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.KickedFromRoom{Message: "kicked by owner"})

	if s.Screen != ScreenLobby {
		t.Fatalf("screen = %v, want Lobby", s.Screen)
	}
	if s.Room != nil {
		t.Fatal("room mirror must be cleared")
	}
	if _, ok := s.Selection(); ok {
		t.Fatal("selection must be cleared with the room")
	}
	if _, ok := rec.mustLast(t).(proto.GetRoomList); !ok {
		t.Fatal("expected lobby refresh after being kicked")
	}
}

func TestRoomDeletedReturnsToLobby(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Bob")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.RoomDeleted{Message: "owner left"})
	if s.Screen != ScreenLobby || s.Room != nil {
		t.Fatal("room_deleted must clear the room and force Lobby")
	}
}

func TestRosterReplacementIsWholesale(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.UserJoined{
		Username:   "Carol",
		JoinAs:     proto.RoleSpectator,
		Players:    []string{"Alice", "Bob"},
		Spectators: 1,
		MemberList: []proto.Member{
			{WebsocketID: "ws-Alice", Username: "Alice", Role: proto.RolePlayer, IsOwner: true},
			{WebsocketID: "ws-Carol", Username: "Carol", Role: proto.RoleSpectator},
		},
	})

	if len(s.Room.Members) != 2 {
		t.Fatalf("roster size = %d, want 2", len(s.Room.Members))
	}
	for _, m := range s.Room.Members {
		if m.Username == "Bob" {
			t.Fatal("stale roster entry survived wholesale replacement")
		}
	}
	if s.Room.Spectators != 1 {
		t.Fatalf("spectators = %d", s.Room.Spectators)
	}
}

func TestUserLeftTriggersRosterRefresh(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.UserLeft{Username: "Bob", Players: []string{"Alice"}})
	if !s.Room.RosterStale {
		t.Fatal("user_left without a roster must mark it stale")
	}
	if _, ok := rec.mustLast(t).(proto.GetMemberList); !ok {
		t.Fatal("expected a get_member_list refresh")
	}

	s.Apply(&proto.MemberListSnapshot{MemberList: []proto.Member{
		{WebsocketID: "ws-Alice", Username: "Alice", Role: proto.RolePlayer, IsOwner: true},
	}, IsOwner: true})
	if s.Room.RosterStale {
		t.Fatal("snapshot must clear staleness")
	}
	if len(s.Room.Members) != 1 || s.Room.Members[0].Username != "Alice" {
		t.Fatalf("roster not replaced: %+v", s.Room.Members)
	}
}

func TestMoveMadeReplacesGameWholesale(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying,
		map[board.Pos]board.Piece{
			{Row: 9, Col: 4}: {Type: board.King, Color: board.Red},
		}))
	s.ClickCell(board.Pos{Row: 0, Col: 4}) // leave a selection behind

	next := testBoard(map[board.Pos]board.Piece{
		{Row: 8, Col: 4}: {Type: board.King, Color: board.Red},
	})
	s.Apply(&proto.MoveMade{
		FromRow: 9, FromCol: 4, ToRow: 8, ToCol: 4,
		Player:        "Alice",
		CurrentPlayer: board.Black,
		GameStatus:    proto.StatusPlaying,
		Board:         next,
		LastMove:      &proto.Move{FromRow: 9, FromCol: 4, ToRow: 8, ToCol: 4, Player: "Alice"},
	})

	if s.Room.Game.CurrentPlayer != board.Black {
		t.Fatalf("current player = %q", s.Room.Game.CurrentPlayer)
	}
	if s.Room.Game.Board.At(board.Pos{Row: 9, Col: 4}) != nil {
		t.Fatal("board not replaced wholesale")
	}
	if s.Room.Game.LastMove == nil || s.Room.Game.LastMove.ToRow != 8 {
		t.Fatalf("last move not mirrored: %+v", s.Room.Game.LastMove)
	}
	if _, ok := s.Selection(); ok {
		t.Fatal("board refresh must clear the selection")
	}
	rec.drain()
}

func TestConnectionLostForcesLogin(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.ConnectionLost{})

	if s.Screen != ScreenLogin || s.Conn != Disconnected {
		t.Fatalf("screen=%v conn=%v, want Login/Disconnected", s.Screen, s.Conn)
	}
	if s.Room != nil || s.Rooms != nil {
		t.Fatal("mirrored state must be discarded")
	}
	if s.Identity != "Alice" {
		t.Fatal("identity must survive a transport failure")
	}
}

func TestLogoutDiscardsIdentity(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	s.Logout()
	if s.Identity != "" || s.Screen != ScreenLogin {
		t.Fatal("logout must discard identity and return to Login")
	}
}

func TestPrivateEchoConfirmsInsteadOfDuplicating(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	if err := s.SendPrivate("Bob", "hi there"); err != nil {
		t.Fatalf("send private: %v", err)
	}
	sent, ok := rec.mustLast(t).(proto.SendPrivate)
	if !ok || sent.TargetUsername != "Bob" {
		t.Fatalf("unexpected intent: %+v", rec.mustLast(t))
	}

	th := s.Thread("Bob")
	if len(th.Entries) != 1 || !th.Entries[0].Pending || th.Entries[0].LocalID == "" {
		t.Fatalf("expected one pending entry with a correlation id: %+v", th.Entries)
	}

	s.Apply(&proto.PrivateMessageSent{
		From: "Alice", To: "Bob", Message: "hi there", Timestamp: "2026-08-01T10:00:00",
	})
	if len(th.Entries) != 1 {
		t.Fatalf("echo must confirm, not duplicate: %+v", th.Entries)
	}
	if th.Entries[0].Pending || th.Entries[0].Timestamp == "" {
		t.Fatalf("entry not confirmed: %+v", th.Entries[0])
	}
}

// Two identical pending texts get distinct correlation ids; the echo
// confirms the oldest one and leaves the other pending under its own id.
func TestPrivateEchoConfirmsOldestByCorrelationID(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	if err := s.SendPrivate("Bob", "ping"); err != nil {
		t.Fatalf("send private: %v", err)
	}
	if err := s.SendPrivate("Bob", "ping"); err != nil {
		t.Fatalf("send private: %v", err)
	}
	rec.drain()

	th := s.Thread("Bob")
	if len(th.Entries) != 2 {
		t.Fatalf("expected two pending entries: %+v", th.Entries)
	}
	first, second := th.Entries[0].LocalID, th.Entries[1].LocalID
	if first == "" || second == "" || first == second {
		t.Fatalf("correlation ids must be distinct: %q vs %q", first, second)
	}

	s.Apply(&proto.PrivateMessageSent{
		From: "Alice", To: "Bob", Message: "ping", Timestamp: "2026-08-01T10:00:00",
	})
	if th.Entries[0].Pending || th.Entries[0].LocalID != first {
		t.Fatalf("oldest entry not confirmed in place: %+v", th.Entries[0])
	}
	if !th.Entries[1].Pending || th.Entries[1].LocalID != second {
		t.Fatalf("newer entry must stay pending: %+v", th.Entries[1])
	}
}

func TestInboundPrivateMessageAppends(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")

	s.Apply(&proto.PrivateMessage{From: "Bob", To: "Alice", Message: "yo", Timestamp: "t"})
	th := s.Thread("Bob")
	if len(th.Entries) != 1 || th.Entries[0].Sender != "Bob" || th.Entries[0].Pending {
		t.Fatalf("unexpected thread: %+v", th.Entries)
	}
}

func TestChatIsNotOptimistic(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	if err := s.SendChat("hello"); err != nil {
		t.Fatalf("send chat: %v", err)
	}
	if len(s.Room.Chat) != 0 {
		t.Fatal("chat must only come back via the server's broadcast")
	}

	s.Apply(&proto.ChatMessage{Username: "Alice", Message: "hello", Timestamp: "t"})
	if len(s.Room.Chat) != 1 || s.Room.Chat[0].Message != "hello" {
		t.Fatalf("broadcast echo not mirrored: %+v", s.Room.Chat)
	}
}

func TestChatRejectedIsOnlyANotice(t *testing.T) {
	s, rec := newTestSession(t)
	authenticate(t, s, rec, "Alice")
	enterRoom(t, s, rec, joinedRoom([]string{"Alice", "Bob"}, proto.RolePlayer, proto.StatusPlaying, nil))

	s.Apply(&proto.ChatRejected{Reason: "muted"})
	if s.Screen != ScreenRoom {
		t.Fatal("chat_rejected must not change screens")
	}
	if len(s.Notices()) == 0 {
		t.Fatal("expected a transient notice")
	}
}
