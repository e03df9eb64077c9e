// Package ui is a pure projection of the session aggregate onto a terminal
// writer. It holds no state and mutates nothing; it is re-derived in full
// after every dispatch.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/core"
)

// Render writes the current view of the session.
func Render(w io.Writer, s *core.Session) {
	for _, n := range s.Notices() {
		fmt.Fprintf(w, "%s %s\n", noticeTag(n.Level), n.Text)
	}

	switch s.Screen {
	case core.ScreenLogin:
		renderLogin(w, s)
	case core.ScreenLobby:
		renderLobby(w, s)
	case core.ScreenRoom:
		renderRoom(w, s)
	}
}

func noticeTag(level core.NoticeLevel) string {
	switch level {
	case core.NoticeWarn:
		return "[warn]"
	case core.NoticeError:
		return "[error]"
	default:
		return "[info]"
	}
}

func renderLogin(w io.Writer, s *core.Session) {
	if s.Conn == core.Connecting {
		fmt.Fprintln(w, "connecting...")
		return
	}
	fmt.Fprintln(w, "enter a name to log in (or: quit)")
}

func renderLobby(w io.Writer, s *core.Session) {
	fmt.Fprintf(w, "lobby - logged in as %s\n", s.Identity)
	if len(s.Rooms) == 0 {
		fmt.Fprintln(w, "  no rooms yet; create one with: create <name> [password]")
		return
	}
	for _, r := range s.Rooms {
		name := r.RoomName
		if r.IsPrivate {
			name += " [private]"
		}
		fmt.Fprintf(w, "  %-10s %-30s  players %d/2  spectators %d  %s\n",
			r.RoomID, name, r.Players, r.Spectators, r.GameStatus)
	}
}

func renderRoom(w io.Writer, s *core.Session) {
	room := s.Room
	if room == nil {
		return
	}
	fmt.Fprintf(w, "room %s (%s)\n", room.Name, room.ID)

	renderBoard(w, s)

	fmt.Fprintf(w, "status: %s", room.Game.Status)
	if room.Game.Winner != "" {
		fmt.Fprintf(w, ", winner: %s", room.Game.Winner)
	} else if room.Game.Status != "" {
		fmt.Fprintf(w, ", turn: %s", room.Game.CurrentPlayer)
	}
	if color := s.LocalColor(); color != "" {
		fmt.Fprintf(w, " (you are %s)", color)
	}
	fmt.Fprintln(w)

	for _, m := range room.Members {
		tags := []string{m.Role}
		if m.IsOwner {
			tags = append(tags, "owner")
		}
		if m.IsMuted {
			tags = append(tags, "muted")
		}
		fmt.Fprintf(w, "  %-20s %-12s %s\n", m.Username, strings.Join(tags, ","), m.Handle)
	}

	if n := len(room.Chat); n > 0 {
		start := n - 5
		if start < 0 {
			start = 0
		}
		for _, c := range room.Chat[start:] {
			fmt.Fprintf(w, "  <%s> %s\n", c.Username, c.Message)
		}
	}
}

func renderBoard(w io.Writer, s *core.Session) {
	o := s.Orientation()
	sel, hasSel := s.Selection()

	var last *board.Pos
	if lm := s.Room.Game.LastMove; lm != nil {
		last = &board.Pos{Row: lm.ToRow, Col: lm.ToCol}
	}

	fmt.Fprint(w, "    ")
	for c := 0; c < board.Cols; c++ {
		fmt.Fprintf(w, " %d ", c)
	}
	fmt.Fprintln(w)

	for r := 0; r < board.Rows; r++ {
		fmt.Fprintf(w, "  %d ", r)
		for c := 0; c < board.Cols; c++ {
			logical := o.ToLogical(board.Pos{Row: r, Col: c})
			glyph := glyphAt(&s.Room.Game.Board, logical)
			switch {
			case hasSel && logical == sel:
				fmt.Fprintf(w, "[%c]", glyph)
			case last != nil && logical == *last:
				fmt.Fprintf(w, "<%c>", glyph)
			default:
				fmt.Fprintf(w, " %c ", glyph)
			}
		}
		fmt.Fprintln(w)
	}
}

// glyphAt renders a cell: red pieces uppercase, black lowercase.
func glyphAt(b *board.Board, p board.Pos) rune {
	piece := b.At(p)
	if piece == nil {
		return '.'
	}
	var g rune
	switch piece.Type {
	case board.King:
		g = 'k'
	case board.Advisor:
		g = 'a'
	case board.Elephant:
		g = 'e'
	case board.Horse:
		g = 'h'
	case board.Rook:
		g = 'r'
	case board.Cannon:
		g = 'c'
	case board.Pawn:
		g = 'p'
	default:
		g = '?'
	}
	if piece.Color == board.Red {
		return g - 'a' + 'A'
	}
	return g
}
