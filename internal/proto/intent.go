// Package proto defines the wire protocol: client→server intents tagged by
// an "action" field and server→client events tagged by a "type" field. Both
// directions are closed unions; anything outside them is a protocol error.
package proto

import (
	"encoding/json"
	"fmt"
)

// Intent action names.
const (
	ActionSetUsername      = "set_username"
	ActionCreateRoom       = "create_room"
	ActionJoinRoom         = "join_room"
	ActionGetRoomList      = "get_room_list"
	ActionGetMemberList    = "get_member_list"
	ActionStartGame        = "start_game"
	ActionLeaveRoom        = "leave_room"
	ActionChatMessage      = "chat_message"
	ActionPrivateMessage   = "private_message"
	ActionMakeMove         = "make_move"
	ActionChangeMemberRole = "change_member_role"
	ActionMuteMember       = "mute_member"
	ActionUnmuteMember     = "unmute_member"
	ActionKickMember       = "kick_member"
)

// Member roles on the wire.
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// Game status values on the wire.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Intent is a client-originated request. Its effect is never assumed until a
// corresponding event arrives.
type Intent interface {
	Action() string
}

// SetUsername claims a display name for this connection.
type SetUsername struct {
	Username string `json:"username"`
}

func (SetUsername) Action() string { return ActionSetUsername }

// CreateRoom asks the server to create a room owned by this user. A non-empty
// password makes the room private.
type CreateRoom struct {
	RoomName string `json:"room_name"`
	Password string `json:"password,omitempty"`
}

func (CreateRoom) Action() string { return ActionCreateRoom }

// JoinRoom enters an existing room as a player or spectator.
type JoinRoom struct {
	RoomID   string `json:"room_id"`
	Password string `json:"password,omitempty"`
	JoinAs   string `json:"join_as"`
}

func (JoinRoom) Action() string { return ActionJoinRoom }

// GetRoomList requests the lobby room listing.
type GetRoomList struct{}

func (GetRoomList) Action() string { return ActionGetRoomList }

// GetMemberList requests a fresh roster snapshot for the current room.
type GetMemberList struct{}

func (GetMemberList) Action() string { return ActionGetMemberList }

// StartGame starts the game; only the room owner may.
type StartGame struct{}

func (StartGame) Action() string { return ActionStartGame }

// LeaveRoom leaves the current room.
type LeaveRoom struct{}

func (LeaveRoom) Action() string { return ActionLeaveRoom }

// SendChat posts a message to the current room's chat.
type SendChat struct {
	Message string `json:"message"`
}

func (SendChat) Action() string { return ActionChatMessage }

// SendPrivate sends a direct message to another connected user.
type SendPrivate struct {
	TargetUsername string `json:"target_username"`
	Message        string `json:"message"`
}

func (SendPrivate) Action() string { return ActionPrivateMessage }

// MakeMove submits a move in logical board coordinates. Coordinates on the
// wire are never display-transformed.
type MakeMove struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

func (MakeMove) Action() string { return ActionMakeMove }

// ChangeMemberRole switches a member between player and spectator. Targets
// are addressed by their connection handle, never by name.
type ChangeMemberRole struct {
	TargetWebsocketID string `json:"target_websocket_id"`
	NewRole           string `json:"new_role"`
}

func (ChangeMemberRole) Action() string { return ActionChangeMemberRole }

// MuteMember silences a member in room chat.
type MuteMember struct {
	TargetWebsocketID string `json:"target_websocket_id"`
}

func (MuteMember) Action() string { return ActionMuteMember }

// UnmuteMember lifts a mute.
type UnmuteMember struct {
	TargetWebsocketID string `json:"target_websocket_id"`
}

func (UnmuteMember) Action() string { return ActionUnmuteMember }

// KickMember removes a member from the room.
type KickMember struct {
	TargetWebsocketID string `json:"target_websocket_id"`
}

func (KickMember) Action() string { return ActionKickMember }

// EncodeIntent serializes an intent to the flat JSON object the server
// expects, with the action discriminator merged into the payload fields.
func EncodeIntent(in Intent) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal intent %q: %w", in.Action(), err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flatten intent %q: %w", in.Action(), err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	action, err := json.Marshal(in.Action())
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}
	fields["action"] = action

	return json.Marshal(fields)
}
