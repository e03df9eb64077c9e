package core

// NoticeLevel grades a transient notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

// Notice is a transient, dismissible user-visible message. Notices never
// change the screen; screen transitions are driven only by events.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// Retain only a handful of notices; older ones drop off.
const maxNotices = 8

func (s *Session) pushNotice(level NoticeLevel, text string) {
	if text == "" {
		return
	}
	s.notices = append(s.notices, Notice{Level: level, Text: text})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// Notices returns the pending transient notices, oldest first.
func (s *Session) Notices() []Notice {
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// DismissNotices clears all pending notices.
func (s *Session) DismissNotices() {
	s.notices = nil
}
