// Package conn owns the single persistent WebSocket connection to the lobby
// server: dialing, intent serialization, and ordered event delivery.
package conn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/xiangqi-client/internal/proto"
	"nhooyr.io/websocket"
)

// Conn is one logical connection. Events arrive on Events() in the order the
// server sent them, never reordered or batched. After an explicit Close no
// further events are delivered.
type Conn struct {
	ws     *websocket.Conn
	log    *zerolog.Logger
	events chan proto.Event
	cancel context.CancelFunc

	mu     sync.Mutex
	open   bool
	closed bool // explicit Close requested
}

// Dial establishes the channel and starts the read loop. The returned Conn
// is live; the caller is expected to authenticate immediately.
func Dial(ctx context.Context, endpoint string, logger *zerolog.Logger) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		ws:     ws,
		log:    logger,
		events: make(chan proto.Event, 16),
		cancel: cancel,
		open:   true,
	}
	go c.readLoop(readCtx)
	return c, nil
}

// Events returns the inbound event stream. The channel closes after the
// terminal event (or silently after an explicit Close).
func (c *Conn) Events() <-chan proto.Event {
	return c.events
}

// Send serializes and transmits an intent. It is a silent no-op once the
// connection is gone: delivery is at most once, only while connected.
func (c *Conn) Send(ctx context.Context, in proto.Intent) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return nil
	}

	data, err := proto.EncodeIntent(in)
	if err != nil {
		return err
	}
	if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
		c.log.Warn().Err(err).Str("action", in.Action()).Msg("write intent")
		return fmt.Errorf("send %s: %w", in.Action(), err)
	}
	c.log.Debug().Str("action", in.Action()).Msg("intent sent")
	return nil
}

// Close tears the connection down. Events already in flight are discarded
// and no ConnectionLost is delivered.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.open = false
	c.mu.Unlock()

	c.cancel()
	_ = c.ws.Close(websocket.StatusNormalClosure, "bye")
}

func (c *Conn) readLoop(ctx context.Context) {
	defer close(c.events)

	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			c.mu.Lock()
			explicit := c.closed
			c.open = false
			c.mu.Unlock()

			if explicit || errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info().Msg("server closed connection")
			default:
				c.log.Warn().Err(err).Msg("connection terminated")
			}
			c.events <- &proto.ConnectionLost{Err: err}
			return
		}

		ev, err := proto.DecodeEvent(data)
		if err != nil {
			var unknown *proto.UnknownEventError
			if errors.As(err, &unknown) {
				c.log.Warn().Str("event_type", unknown.EventType).
					RawJSON("payload", unknown.Payload).Msg("unknown event")
			} else {
				c.log.Warn().Err(err).Msg("malformed event")
			}
			continue
		}

		select {
		case c.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
