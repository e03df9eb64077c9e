package core

// Error codes for locally-detected problems. These never reach the server;
// they surface as transient notices.
const (
	ErrCodeEmptyUsername    = "empty_username"
	ErrCodeUsernameTooLong  = "username_too_long"
	ErrCodeEmptyRoomName    = "empty_room_name"
	ErrCodeEmptyRoomID      = "empty_room_id"
	ErrCodePasswordRequired = "password_required"
	ErrCodeEmptyMessage     = "empty_message"
	ErrCodeEmptyTarget      = "empty_target"
	ErrCodeNotOwner         = "not_owner"
	ErrCodeNotInRoom        = "not_in_room"
)

// ClientError wraps a code and human-readable message.
type ClientError struct {
	Code    string
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

func clientError(code, msg string) *ClientError {
	return &ClientError{Code: code, Message: msg}
}
