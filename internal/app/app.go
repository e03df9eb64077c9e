// Package app wires configuration, logging, the identity cache, the
// transcript archive, the connection, and the session aggregate, and runs
// the single-threaded dispatch loop.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/xiangqi-client/internal/board"
	"github.com/vovakirdan/xiangqi-client/internal/config"
	"github.com/vovakirdan/xiangqi-client/internal/conn"
	"github.com/vovakirdan/xiangqi-client/internal/core"
	"github.com/vovakirdan/xiangqi-client/internal/identity"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
	"github.com/vovakirdan/xiangqi-client/internal/store"
	"github.com/vovakirdan/xiangqi-client/internal/store/sqlite"
	"github.com/vovakirdan/xiangqi-client/internal/ui"
)

const sendTimeout = 5 * time.Second

// App owns the process-wide singletons: one session, at most one connection.
type App struct {
	cfg config.Config
	log *zerolog.Logger
	out io.Writer

	sess    *core.Session
	conn    *conn.Conn
	ids     *identity.Cache
	archive store.Store
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger, out io.Writer) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger,
		out: out,
	}
	a.sess = core.New(logger, a)

	ids, err := identity.Open(cfg.IdentityPath, cfg.IdentityTTL)
	if err != nil {
		// The cache only skips the login prompt; keep going without it.
		logger.Warn().Err(err).Str("path", cfg.IdentityPath).Msg("identity cache unavailable")
	} else {
		a.ids = ids
	}

	if cfg.TranscriptPath != "" {
		st, err := sqlite.New(cfg.TranscriptPath)
		if err != nil {
			return nil, fmt.Errorf("open transcript archive: %w", err)
		}
		a.archive = st
		logger.Info().Str("path", cfg.TranscriptPath).Msg("transcript archive enabled")
	}

	return a, nil
}

// Send implements core.Sender. A missing connection makes it a silent no-op,
// matching the at-most-once, only-while-connected contract.
func (a *App) Send(in proto.Intent) error {
	if a.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	return a.conn.Send(ctx, in)
}

// Run drives the dispatch loop until the context is canceled or the input
// ends. All state mutation happens here, on this goroutine.
func (a *App) Run(ctx context.Context, input io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	// A cached, unexpired identity skips the login step.
	if a.ids != nil {
		if name, ok, err := a.ids.Load(); err != nil {
			a.log.Warn().Err(err).Msg("read identity cache")
		} else if ok {
			a.connect(ctx, name)
		}
	}
	a.render()

	for {
		var events <-chan proto.Event
		if a.conn != nil {
			events = a.conn.Events()
		}

		select {
		case <-ctx.Done():
			a.cleanup()
			return nil

		case line, ok := <-lines:
			if !ok {
				a.cleanup()
				return nil
			}
			if strings.TrimSpace(line) == "quit" {
				a.cleanup()
				return nil
			}
			a.handleLine(ctx, line)
			a.render()

		case ev, ok := <-events:
			if !ok {
				a.conn = nil
				continue
			}
			a.dispatch(ev)
			a.render()
		}
	}
}

func (a *App) render() {
	ui.Render(a.out, a.sess)
	a.sess.DismissNotices()
}

// dispatch funnels one inbound event through the aggregate, then handles
// the app-level side effects (identity cache, transcript archive).
func (a *App) dispatch(ev proto.Event) {
	a.archiveEvent(ev)
	a.sess.Apply(ev)

	switch ev := ev.(type) {
	case *proto.UsernameSet:
		if a.ids != nil {
			if err := a.ids.Save(ev.Username); err != nil {
				a.log.Warn().Err(err).Msg("save identity")
			}
		}
	case *proto.ConnectionLost:
		a.log.Info().Msg("session terminated by transport failure")
	}
}

func (a *App) archiveEvent(ev proto.Event) {
	if a.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	var err error
	switch ev := ev.(type) {
	case *proto.ChatMessage:
		room := a.sess.Room
		if room == nil {
			return
		}
		err = a.archive.SaveRoomMessage(ctx, store.RoomMessage{
			RoomID:    room.ID,
			RoomName:  room.Name,
			Sender:    ev.Username,
			Body:      ev.Message,
			Timestamp: ev.Timestamp,
		})
	case *proto.PrivateMessage:
		err = a.archive.SavePrivateMessage(ctx, store.PrivateMessage{
			Correspondent: ev.From,
			Sender:        ev.From,
			Body:          ev.Message,
			Timestamp:     ev.Timestamp,
		})
	case *proto.PrivateMessageSent:
		err = a.archive.SavePrivateMessage(ctx, store.PrivateMessage{
			Correspondent: ev.To,
			Sender:        ev.From,
			Body:          ev.Message,
			Timestamp:     ev.Timestamp,
		})
	default:
		return
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("archive message")
	}
}

func (a *App) connect(ctx context.Context, name string) {
	if err := a.sess.SetIdentity(name); err != nil {
		return
	}
	a.sess.BeginConnect()
	c, err := conn.Dial(ctx, a.cfg.Endpoint, a.log)
	if err != nil {
		a.log.Warn().Err(err).Str("endpoint", a.cfg.Endpoint).Msg("dial failed")
		a.sess.ConnFailed(err)
		return
	}
	a.conn = c
	a.sess.ConnEstablished()
}

func (a *App) logout() {
	a.sess.Logout()
	if a.ids != nil {
		if err := a.ids.Clear(); err != nil {
			a.log.Warn().Err(err).Msg("clear identity cache")
		}
	}
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
}

func (a *App) cleanup() {
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	if a.ids != nil {
		if err := a.ids.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close identity cache")
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close transcript archive")
		}
	}
}

// handleLine parses one user gesture. The grammar is screen-dependent; in a
// room, a line without a leading keyword is a chat message.
func (a *App) handleLine(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch a.sess.Screen {
	case core.ScreenLogin:
		a.connect(ctx, strings.TrimSpace(line))

	case core.ScreenLobby:
		a.handleLobbyLine(fields)

	case core.ScreenRoom:
		a.handleRoomLine(line, fields)
	}
}

func (a *App) handleLobbyLine(fields []string) {
	switch fields[0] {
	case "rooms":
		a.sess.RequestRooms()
	case "create":
		if len(fields) < 2 {
			a.usage("create <name> [password]")
			return
		}
		password := ""
		if len(fields) > 2 {
			password = fields[2]
		}
		_ = a.sess.CreateRoom(fields[1], password)
	case "join":
		if len(fields) < 2 {
			a.usage("join <room-id> [player|spectator] [password]")
			return
		}
		joinAs := proto.RoleSpectator
		if len(fields) > 2 {
			joinAs = fields[2]
		}
		password := ""
		if len(fields) > 3 {
			password = fields[3]
		}
		_ = a.sess.JoinRoom(fields[1], password, joinAs)
	case "pm":
		a.sendPrivate(fields)
	case "pmlog":
		if len(fields) < 2 {
			a.usage("pmlog <user>")
			return
		}
		a.printPrivateHistory(fields[1])
	case "logout":
		a.logout()
	default:
		a.usage("rooms | create | join | pm | pmlog | logout | quit")
	}
}

func (a *App) handleRoomLine(line string, fields []string) {
	switch fields[0] {
	case "click":
		if len(fields) != 3 {
			a.usage("click <row> <col>")
			return
		}
		row, errR := strconv.Atoi(fields[1])
		col, errC := strconv.Atoi(fields[2])
		if errR != nil || errC != nil {
			a.usage("click <row> <col>")
			return
		}
		a.sess.ClickCell(board.Pos{Row: row, Col: col})
	case "rotate":
		a.sess.ToggleRotation()
	case "start":
		a.sess.StartGame()
	case "leave":
		a.sess.LeaveRoom()
	case "chat":
		_ = a.sess.SendChat(strings.TrimPrefix(strings.TrimSpace(line), "chat"))
	case "pm":
		a.sendPrivate(fields)
	case "pmlog":
		if len(fields) < 2 {
			a.usage("pmlog <user>")
			return
		}
		a.printPrivateHistory(fields[1])
	case "history":
		a.printRoomHistory()
	case "role":
		if len(fields) != 3 {
			a.usage("role <handle> <player|spectator>")
			return
		}
		_ = a.sess.ChangeRole(fields[1], fields[2])
	case "mute":
		if len(fields) == 2 {
			_ = a.sess.Mute(fields[1])
		}
	case "unmute":
		if len(fields) == 2 {
			_ = a.sess.Unmute(fields[1])
		}
	case "kick":
		if len(fields) == 2 {
			_ = a.sess.Kick(fields[1])
		}
	default:
		// Plain text is room chat.
		_ = a.sess.SendChat(line)
	}
}

func (a *App) sendPrivate(fields []string) {
	if len(fields) < 3 {
		a.usage("pm <user> <message>")
		return
	}
	_ = a.sess.SendPrivate(fields[1], strings.Join(fields[2:], " "))
}

func (a *App) printRoomHistory() {
	if a.archive == nil || a.sess.Room == nil {
		fmt.Fprintln(a.out, "no transcript archive")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	msgs, err := a.archive.RoomHistory(ctx, a.sess.Room.ID, 20)
	if err != nil {
		a.log.Warn().Err(err).Msg("room history")
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "  %s <%s> %s\n", m.Timestamp, m.Sender, m.Body)
	}
}

func (a *App) printPrivateHistory(correspondent string) {
	if a.archive == nil {
		fmt.Fprintln(a.out, "no transcript archive")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	msgs, err := a.archive.PrivateHistory(ctx, correspondent, 20)
	if err != nil {
		a.log.Warn().Err(err).Msg("private history")
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "  %s <%s> %s\n", m.Timestamp, m.Sender, m.Body)
	}
}

func (a *App) usage(text string) {
	fmt.Fprintln(a.out, "usage: "+text)
}
