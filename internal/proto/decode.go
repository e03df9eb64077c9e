package proto

import (
	"encoding/json"
	"fmt"
)

// UnknownEventError reports a payload whose type discriminator is outside
// the closed event union. It is surfaced, not silently dropped, so protocol
// drift between client and server is diagnosable.
type UnknownEventError struct {
	EventType string
	Payload   []byte
}

func (e *UnknownEventError) Error() string {
	if e.EventType == "" {
		return "event without type discriminator"
	}
	return fmt.Sprintf("unknown event type %q", e.EventType)
}

// DecodeEvent parses one inbound message into its typed event. Payloads with
// a missing or unrecognized type yield an *UnknownEventError.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	ev := eventFor(head.Type)
	if ev == nil {
		return nil, &UnknownEventError{EventType: head.Type, Payload: data}
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", head.Type, err)
	}
	return ev, nil
}

func eventFor(eventType string) Event {
	switch eventType {
	case TypeUsernameSet:
		return &UsernameSet{}
	case TypeRoomCreated:
		return &RoomCreated{}
	case TypeJoinedRoom:
		return &JoinedRoom{}
	case TypeRoomList:
		return &RoomList{}
	case TypeUserJoined:
		return &UserJoined{}
	case TypeUserLeft:
		return &UserLeft{}
	case TypeMemberRoleChanged:
		return &MemberRoleChanged{}
	case TypeMemberKicked:
		return &MemberKicked{}
	case TypeKickedFromRoom:
		return &KickedFromRoom{}
	case TypeRoomDeleted:
		return &RoomDeleted{}
	case TypeChatMessage:
		return &ChatMessage{}
	case TypePrivateMessage:
		return &PrivateMessage{}
	case TypePrivateMessageSent:
		return &PrivateMessageSent{}
	case TypeMoveMade:
		return &MoveMade{}
	case TypeGameStarted:
		return &GameStarted{}
	case TypeLeftRoom:
		return &LeftRoom{}
	case TypeError:
		return &ServerError{}
	case TypeMoveRejected:
		return &MoveRejected{}
	case TypeChatRejected:
		return &ChatRejected{}
	case TypeMemberMuted:
		return &MemberMuted{}
	case TypeMemberUnmuted:
		return &MemberUnmuted{}
	case TypeMemberList:
		return &MemberListSnapshot{}
	}
	return nil
}
