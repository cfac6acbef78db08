package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/telechat/pkg/domain"
)

// eventBuffer is how many pushed events may queue before the read loop blocks.
const eventBuffer = 64

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	RequestTimeout time.Duration
	PingInterval   time.Duration
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
}

// Client is a websocket connection to the room server.
type Client struct {
	conn    *websocket.Conn
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan Event
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	pending map[string]chan envelope
	closed  bool

	tornDown atomic.Bool
	done     chan struct{}
}

// Dial opens a connection to url and starts reading pushed events.
// The client is ready for requests once Dial returns.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPClient: opts.HTTPClient})
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	conn.SetReadLimit(1 << 20)

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "client").Logger()
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:    conn,
		ctx:     cctx,
		cancel:  cancel,
		events:  make(chan Event, eventBuffer),
		timeout: timeout,
		logger:  logger,
		pending: make(map[string]chan envelope),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	if opts.PingInterval > 0 {
		go c.pingLoop(opts.PingInterval)
	}
	return c, nil
}

// Events returns the stream of pushed events. The channel is closed when the
// connection ends; an unsolicited end is preceded by a Closed event.
func (c *Client) Events() <-chan Event {
	return c.events
}

// CreateRoom asks the server for a new room and returns its id.
func (c *Client) CreateRoom(ctx context.Context, nickname, icon string) (string, error) {
	data, err := c.request(ctx, TypeCreateSession, sessionRequest{UserNickname: nickname, UserIcon: icon})
	if err != nil {
		return "", fmt.Errorf("client.CreateRoom: %w", err)
	}
	var resp createResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("client.CreateRoom: decode response: %w", err)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("client.CreateRoom: %w", &OperationError{Op: TypeCreateSession, Message: "empty room id"})
	}
	return resp.SessionID, nil
}

// JoinRoom joins an existing room and returns its message history, oldest first.
func (c *Client) JoinRoom(ctx context.Context, nickname, roomID, icon string) ([]domain.ChatEvent, error) {
	data, err := c.request(ctx, TypeJoinSession, sessionRequest{SessionID: roomID, UserNickname: nickname, UserIcon: icon})
	if err != nil {
		return nil, fmt.Errorf("client.JoinRoom: %w", err)
	}
	var resp joinResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("client.JoinRoom: decode response: %w", err)
		}
	}
	history := make([]domain.ChatEvent, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		history = append(history, m.chatEvent())
	}
	return history, nil
}

// Send writes a fire-and-forget frame of the given type.
func (c *Client) Send(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("client.Send: marshal %s: %w", eventType, err)
	}
	if err := c.write(ctx, envelope{Type: eventType, Data: data}); err != nil {
		return fmt.Errorf("client.Send: %w", err)
	}
	return nil
}

// Teardown closes the connection without emitting a Closed event.
// Safe to call more than once.
func (c *Client) Teardown() {
	if c.tornDown.Swap(true) {
		return
	}
	c.cancel()
	c.conn.Close(websocket.StatusNormalClosure, "bye") //nolint:errcheck // best-effort close
	<-c.done
}

func (c *Client) request(ctx context.Context, eventType string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}

	id := uuid.NewString()
	ch := make(chan envelope, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.write(ctx, envelope{Type: eventType, Data: data, CallbackID: id}); err != nil {
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if resp.Error != "" {
			return nil, &OperationError{Op: eventType, Message: resp.Error}
		}
		return resp.Data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("await %s: %w", eventType, ctx.Err())
	}
}

func (c *Client) write(ctx context.Context, env envelope) error {
	if c.isClosed() {
		return ErrClosed
	}
	if err := wsjson.Write(ctx, c.conn, env); err != nil {
		return fmt.Errorf("write %s: %w", env.Type, err)
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var env envelope
		if err := wsjson.Read(c.ctx, c.conn, &env); err != nil {
			c.shutdown(err)
			return
		}

		if env.CallbackID != "" {
			c.mu.Lock()
			ch, ok := c.pending[env.CallbackID]
			c.mu.Unlock()
			if ok {
				// A repeated response for the same request is dropped.
				select {
				case ch <- env:
				default:
				}
				continue
			}
		}

		ev, err := decodeEvent(env)
		if err != nil {
			c.logger.Warn().Err(err).Str("type", env.Type).Msg("dropping malformed event")
			continue
		}
		select {
		case c.events <- ev:
		case <-c.ctx.Done():
			c.shutdown(c.ctx.Err())
			return
		}
	}
}

// shutdown fails every pending request and ends the event stream.
func (c *Client) shutdown(cause error) {
	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if !c.tornDown.Load() {
		if errors.Is(cause, context.Canceled) {
			cause = ErrClosed
		}
		c.logger.Info().Err(cause).Int("status", int(websocket.CloseStatus(cause))).Msg("connection closed")
		select {
		case c.events <- Closed{Err: cause}:
		case <-c.ctx.Done():
		}
		c.cancel()
	}
	close(c.events)
}

func (c *Client) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil && c.ctx.Err() == nil {
				c.logger.Debug().Err(err).Msg("ping failed")
			}
		}
	}
}
