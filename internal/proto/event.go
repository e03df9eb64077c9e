package proto

import "github.com/vovakirdan/xiangqi-client/internal/board"

// Event type names.
const (
	TypeUsernameSet        = "username_set"
	TypeRoomCreated        = "room_created"
	TypeJoinedRoom         = "joined_room"
	TypeRoomList           = "room_list"
	TypeUserJoined         = "user_joined"
	TypeUserLeft           = "user_left"
	TypeMemberRoleChanged  = "member_role_changed"
	TypeMemberKicked       = "member_kicked"
	TypeKickedFromRoom     = "kicked_from_room"
	TypeRoomDeleted        = "room_deleted"
	TypeChatMessage        = "chat_message"
	TypePrivateMessage     = "private_message"
	TypePrivateMessageSent = "private_message_sent"
	TypeMoveMade           = "move_made"
	TypeGameStarted        = "game_started"
	TypeLeftRoom           = "left_room"
	TypeError              = "error"
	TypeMoveRejected       = "move_rejected"
	TypeChatRejected       = "chat_rejected"
	TypeMemberMuted        = "member_muted"
	TypeMemberUnmuted      = "member_unmuted"
	TypeMemberList         = "member_list"
)

// Event is a server-originated message, the sole trigger of local state
// mutation.
type Event interface {
	Type() string
}

// Member is one roster entry as the server reports it. WebsocketID is an
// opaque connection handle used to target moderation actions; it is never
// shown to the user and never stands in for identity.
type Member struct {
	WebsocketID string `json:"websocket_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	IsOwner     bool   `json:"is_owner"`
	IsMuted     bool   `json:"is_muted"`
	JoinTime    string `json:"join_time"`
}

// Move is a move record in logical coordinates. Player is set when the move
// came from the server's last-move bookkeeping.
type Move struct {
	FromRow int    `json:"from_row"`
	FromCol int    `json:"from_col"`
	ToRow   int    `json:"to_row"`
	ToCol   int    `json:"to_col"`
	Player  string `json:"player,omitempty"`
}

// ChatEntry is one room chat line.
type ChatEntry struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// GameSnapshot is the full authoritative game state. The client never
// derives a board locally; it always adopts these snapshots wholesale.
type GameSnapshot struct {
	Board         board.Board `json:"board"`
	CurrentPlayer board.Color `json:"current_player"`
	GameStatus    string      `json:"game_status"`
	Winner        board.Color `json:"winner"`
}

// RoomInfo is one lobby listing entry.
type RoomInfo struct {
	RoomID     string `json:"room_id"`
	RoomName   string `json:"room_name"`
	IsPrivate  bool   `json:"is_private"`
	Players    int    `json:"players"`
	Spectators int    `json:"spectators"`
	GameStatus string `json:"game_status"`
}

// UsernameSet confirms authentication.
type UsernameSet struct {
	Username string `json:"username"`
}

func (*UsernameSet) Type() string { return TypeUsernameSet }

// RoomCreated confirms room creation; the creator still has to join.
type RoomCreated struct {
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name"`
	IsPrivate bool   `json:"is_private"`
}

func (*RoomCreated) Type() string { return TypeRoomCreated }

// JoinedRoom carries the complete room snapshot the mirror seeds from.
type JoinedRoom struct {
	RoomID      string       `json:"room_id"`
	RoomName    string       `json:"room_name"`
	JoinAs      string       `json:"join_as"`
	Players     []string     `json:"players"`
	Spectators  int          `json:"spectators"`
	MemberList  []Member     `json:"member_list"`
	ChatHistory []ChatEntry  `json:"chat_history"`
	LastMove    *Move        `json:"last_move"`
	GameState   GameSnapshot `json:"game_state"`
}

func (*JoinedRoom) Type() string { return TypeJoinedRoom }

// RoomList is the lobby listing.
type RoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}

func (*RoomList) Type() string { return TypeRoomList }

// UserJoined announces a new member, with a fresh roster.
type UserJoined struct {
	Username   string   `json:"username"`
	JoinAs     string   `json:"join_as"`
	Players    []string `json:"players"`
	Spectators int      `json:"spectators"`
	MemberList []Member `json:"member_list"`
}

func (*UserJoined) Type() string { return TypeUserJoined }

// UserLeft announces a departure. It carries no roster snapshot, only the
// player list; the client refreshes the roster rather than patching it.
type UserLeft struct {
	Username   string   `json:"username"`
	Players    []string `json:"players"`
	Spectators int      `json:"spectators"`
}

func (*UserLeft) Type() string { return TypeUserLeft }

// MemberRoleChanged announces a role switch, with a fresh roster.
type MemberRoleChanged struct {
	Username   string   `json:"username"`
	NewRole    string   `json:"new_role"`
	MemberList []Member `json:"member_list"`
	Players    []string `json:"players"`
	Spectators int      `json:"spectators"`
}

func (*MemberRoleChanged) Type() string { return TypeMemberRoleChanged }

// MemberKicked tells the remaining members someone was removed.
type MemberKicked struct {
	Username   string   `json:"username"`
	MemberList []Member `json:"member_list"`
	Players    []string `json:"players"`
	Spectators int      `json:"spectators"`
}

func (*MemberKicked) Type() string { return TypeMemberKicked }

// KickedFromRoom tells this client it was removed.
type KickedFromRoom struct {
	Message string `json:"message"`
}

func (*KickedFromRoom) Type() string { return TypeKickedFromRoom }

// RoomDeleted tells members the room ceased to exist.
type RoomDeleted struct {
	Message string `json:"message"`
}

func (*RoomDeleted) Type() string { return TypeRoomDeleted }

// ChatMessage is a room chat broadcast, including the sender's own echo.
type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (*ChatMessage) Type() string { return TypeChatMessage }

// PrivateMessage is an inbound direct message.
type PrivateMessage struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (*PrivateMessage) Type() string { return TypePrivateMessage }

// PrivateMessageSent is the server's echo of this client's own direct
// message, used to confirm the optimistic local append.
type PrivateMessageSent struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (*PrivateMessageSent) Type() string { return TypePrivateMessageSent }

// MoveMade carries the full board resulting from an accepted move.
type MoveMade struct {
	FromRow       int         `json:"from_row"`
	FromCol       int         `json:"from_col"`
	ToRow         int         `json:"to_row"`
	ToCol         int         `json:"to_col"`
	Player        string      `json:"player"`
	CurrentPlayer board.Color `json:"current_player"`
	GameStatus    string      `json:"game_status"`
	Winner        board.Color `json:"winner"`
	Board         board.Board `json:"board"`
	LastMove      *Move       `json:"last_move"`
}

func (*MoveMade) Type() string { return TypeMoveMade }

// GameStarted announces the game beginning, with the starting board.
type GameStarted struct {
	CurrentPlayer board.Color `json:"current_player"`
	Board         board.Board `json:"board"`
}

func (*GameStarted) Type() string { return TypeGameStarted }

// LeftRoom confirms this client's own leave.
type LeftRoom struct{}

func (*LeftRoom) Type() string { return TypeLeftRoom }

// ServerError is the generic rejection; it never forces a screen change.
type ServerError struct {
	Message string `json:"message"`
}

func (*ServerError) Type() string { return TypeError }

// MoveRejected reports a refused move. Game state is untouched.
type MoveRejected struct {
	Reason string `json:"reason"`
}

func (*MoveRejected) Type() string { return TypeMoveRejected }

// ChatRejected reports a refused chat message (e.g. while muted).
type ChatRejected struct {
	Reason string `json:"reason"`
}

func (*ChatRejected) Type() string { return TypeChatRejected }

// MemberMuted announces a mute, with a fresh roster.
type MemberMuted struct {
	Username   string   `json:"username"`
	MemberList []Member `json:"member_list"`
}

func (*MemberMuted) Type() string { return TypeMemberMuted }

// MemberUnmuted announces an unmute, with a fresh roster.
type MemberUnmuted struct {
	Username   string   `json:"username"`
	MemberList []Member `json:"member_list"`
}

func (*MemberUnmuted) Type() string { return TypeMemberUnmuted }

// MemberListSnapshot answers a get_member_list request.
type MemberListSnapshot struct {
	MemberList []Member `json:"member_list"`
	IsOwner    bool     `json:"is_owner"`
}

func (*MemberListSnapshot) Type() string { return TypeMemberList }

// ConnectionLost is synthesized client-side when the channel terminates
// without an explicit close. It never appears on the wire and is not part of
// the decoded union.
type ConnectionLost struct {
	Err error
}

func (*ConnectionLost) Type() string { return "connection_lost" }
