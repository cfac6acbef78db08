// Package room drives one client's room membership: connecting, resuming a
// remembered session, creating or joining a room, consuming the room's event
// stream, and leaving. It runs inside the bubbletea update loop, so every
// transport callback and user intent is handled one at a time.
package room

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/telechat/internal/chat"
	"github.com/naveenspark/telechat/internal/session"
	"github.com/naveenspark/telechat/pkg/client"
	"github.com/naveenspark/telechat/pkg/domain"
)

// Transport is the room server connection the controller owns.
type Transport interface {
	CreateRoom(ctx context.Context, nickname, icon string) (string, error)
	JoinRoom(ctx context.Context, nickname, roomID, icon string) ([]domain.ChatEvent, error)
	Send(ctx context.Context, eventType string, payload any) error
	Events() <-chan client.Event
	Teardown()
}

// Dialer opens a transport and returns once it is ready for requests.
type Dialer func(ctx context.Context) (Transport, error)

// State is the controller's position in its lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateIdle
	StateResuming
	StateInRoom
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateIdle:
		return "idle"
	case StateResuming:
		return "resuming"
	case StateInRoom:
		return "in_room"
	default:
		return "unknown"
	}
}

// User-facing notices.
const (
	noticeCreateFailed  = "Error creating room, please try again."
	noticeJoinFailed    = "Error joining room, please check the room code and try again."
	noticeResumeFailed  = "Could not rejoin your previous room."
	noticeConnectFailed = "Could not connect to the chat server."
	noticeConnLost      = "Connection to the chat server was lost."
	noticeSendFailed    = "Message could not be sent."
	noticeTypingFailed  = "Typing status could not be sent."
	noticeStorageFailed = "Could not save your session."
)

type pendingOp int

const (
	opNone pendingOp = iota
	opCreate
	opJoin
)

// Options configures a Controller.
type Options struct {
	// ConnectDelay is the minimum time Connecting lasts, so a resume does
	// not race the freshly opened socket.
	ConnectDelay time.Duration
	DialTimeout  time.Duration
	Logger       *zerolog.Logger
}

// connectedMsg reports the outcome of opening a transport.
type connectedMsg struct {
	gen       int
	transport Transport
	err       error
}

// createdMsg carries the result of a create request.
type createdMsg struct {
	gen    int
	roomID string
	err    error
}

// joinedMsg carries the result of a join or resume request.
type joinedMsg struct {
	gen     int
	roomID  string
	history []domain.ChatEvent
	resume  bool
	err     error
}

// eventMsg is one pushed event from the transport.
type eventMsg struct {
	gen int
	ev  client.Event
}

// streamEndedMsg fires when the event channel closes.
type streamEndedMsg struct {
	gen int
}

// sentMsg carries the result of a chat send.
type sentMsg struct {
	gen int
	err error
}

// typingSentMsg carries the result of a typing notification.
type typingSentMsg struct {
	gen int
	err error
}

// Controller is the room session state machine.
type Controller struct {
	dial         Dialer
	store        *session.Store
	logger       zerolog.Logger
	connectDelay time.Duration
	dialTimeout  time.Duration
	listen       func(gen int, events <-chan client.Event) tea.Cmd

	state     State
	gen       int // bumped on every new transport; stale results are dropped
	transport Transport
	pending   pendingOp
	deferred  []domain.ChatEvent // messages pushed while a create/join was in flight

	identity domain.Identity
	roomCode string
	selfID   string

	roster       *chat.Roster
	log          chat.Log
	anyoneTyping bool
	typingIDs    []string

	typingInFlight bool
	typingNext     *bool

	notice string
}

// New returns a controller in Connecting. Init opens the first transport.
func New(dial Dialer, store *session.Store, opts Options) *Controller {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "room").Logger()
	}
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 15 * time.Second
	}
	return &Controller{
		dial:         dial,
		store:        store,
		logger:       logger,
		connectDelay: opts.ConnectDelay,
		dialTimeout:  dialTimeout,
		listen:       waitForEvent,
		state:        StateConnecting,
		identity:     domain.Identity{Icon: domain.DefaultIcon},
		roster:       chat.NewRoster(),
	}
}

// Init opens the transport.
func (c *Controller) Init() tea.Cmd {
	return c.connect()
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Busy reports whether a create or join is in flight.
func (c *Controller) Busy() bool { return c.pending != opNone }

// Identity returns the local nickname and icon.
func (c *Controller) Identity() domain.Identity { return c.identity }

// RoomCode returns the active room id in a room, or the typed code otherwise.
func (c *Controller) RoomCode() string { return c.roomCode }

// Notice returns the pending user-visible notice, or "".
func (c *Controller) Notice() string { return c.notice }

// DismissNotice clears the notice.
func (c *Controller) DismissNotice() { c.notice = "" }

// Messages returns the message log in arrival order.
func (c *Controller) Messages() []domain.ChatEvent { return c.log.Events() }

// ParticipantCount returns how many sockets are in the room.
func (c *Controller) ParticipantCount() int { return c.roster.Len() }

// Blocks returns the log grouped for display from the local user's view.
func (c *Controller) Blocks() []chat.Block {
	return chat.Group(c.log.Events(), chat.Viewer{
		Identity:  c.identity,
		SelfID:    c.selfID,
		Lookalike: c.selfID != "" && c.roster.HasLookalike(c.identity, c.selfID),
	})
}

// Typing returns the nicknames currently typing, resolved against the
// roster as it stands now.
func (c *Controller) Typing() []string {
	return chat.TypingNames(c.anyoneTyping, c.typingIDs, c.roster)
}

// SetNickname edits the nickname. Only allowed while idle.
func (c *Controller) SetNickname(nickname string) bool {
	if !c.editable() {
		return false
	}
	c.identity.Nickname = nickname
	c.persist()
	return true
}

// SetIcon picks an icon from the palette. Only allowed while idle.
func (c *Controller) SetIcon(icon string) bool {
	if !c.editable() || domain.IconIndex(icon) < 0 {
		return false
	}
	c.identity.Icon = icon
	c.persist()
	return true
}

// SetRoomCode edits the code to join. Only allowed while idle.
func (c *Controller) SetRoomCode(code string) bool {
	if !c.editable() {
		return false
	}
	c.roomCode = code
	c.persist()
	return true
}

func (c *Controller) editable() bool {
	return c.state == StateIdle && c.pending == opNone
}

// Create asks the server for a new room.
func (c *Controller) Create() tea.Cmd {
	if !c.editable() {
		return nil
	}
	if err := validateNickname(c.identity.Nickname); err != nil {
		c.notify(noticeText(err))
		return nil
	}
	c.pending = opCreate
	c.deferred = nil
	t, gen, id := c.transport, c.gen, c.identity
	c.logger.Info().Str("op", "create").Msg("creating room")
	return func() tea.Msg {
		roomID, err := t.CreateRoom(context.Background(), id.Nickname, id.Icon)
		return createdMsg{gen: gen, roomID: roomID, err: err}
	}
}

// Join joins the room whose code was entered.
func (c *Controller) Join() tea.Cmd {
	if !c.editable() {
		return nil
	}
	if err := validateNickname(c.identity.Nickname); err != nil {
		c.notify(noticeText(err))
		return nil
	}
	if err := validateRoomCode(c.roomCode); err != nil {
		c.notify(noticeText(err))
		return nil
	}
	c.pending = opJoin
	return c.joinCmd(c.roomCode, false)
}

func (c *Controller) joinCmd(roomID string, resume bool) tea.Cmd {
	c.deferred = nil
	t, gen, id := c.transport, c.gen, c.identity
	c.logger.Info().Str("op", "join").Str("room", roomID).Bool("resume", resume).Msg("joining room")
	return func() tea.Msg {
		history, err := t.JoinRoom(context.Background(), id.Nickname, roomID, id.Icon)
		return joinedMsg{gen: gen, roomID: roomID, history: history, resume: resume, err: err}
	}
}

// Send posts a chat message. Blank messages are ignored.
func (c *Controller) Send(body string) tea.Cmd {
	if c.state != StateInRoom || strings.TrimSpace(body) == "" {
		return nil
	}
	t, gen := c.transport, c.gen
	return func() tea.Msg {
		err := t.Send(context.Background(), client.TypeSendMessage, client.MessagePayload{Body: body})
		return sentMsg{gen: gen, err: err}
	}
}

// SetTyping tells the room whether the local user is composing. Only one
// notification is in flight at a time; calls made meanwhile collapse into
// the latest value.
func (c *Controller) SetTyping(typing bool) tea.Cmd {
	if c.state != StateInRoom {
		return nil
	}
	if c.typingInFlight {
		c.typingNext = &typing
		return nil
	}
	return c.sendTyping(typing)
}

func (c *Controller) sendTyping(typing bool) tea.Cmd {
	c.typingInFlight = true
	t, gen := c.transport, c.gen
	return func() tea.Msg {
		err := t.Send(context.Background(), client.TypeTyping, client.TypingPayload{Typing: typing})
		return typingSentMsg{gen: gen, err: err}
	}
}

// Leave exits the room and starts over on a fresh transport. The session is
// marked stale so a restart does not rejoin.
func (c *Controller) Leave() tea.Cmd {
	if c.state != StateInRoom {
		return nil
	}
	if err := c.store.MarkStale(true); err != nil {
		c.logger.Error().Err(err).Msg("mark session stale")
		c.notify(noticeStorageFailed)
	}
	c.logger.Info().Str("room", c.roomCode).Msg("leaving room")
	c.clearRoom()
	return c.connect()
}

// Reload throws away all room state and reconnects, as if the program had
// just started. It is the only way out of Disconnected.
func (c *Controller) Reload() tea.Cmd {
	if c.state != StateDisconnected {
		return nil
	}
	return c.reload()
}

func (c *Controller) reload() tea.Cmd {
	c.clearRoom()
	c.roomCode = ""
	return c.connect()
}

func (c *Controller) clearRoom() {
	c.log.Reset()
	c.roster.Clear()
	c.anyoneTyping = false
	c.typingIDs = nil
	c.typingInFlight = false
	c.typingNext = nil
	c.selfID = ""
	c.pending = opNone
	c.deferred = nil
}

// connect retires the current transport and opens a new one.
func (c *Controller) connect() tea.Cmd {
	old := c.transport
	c.transport = nil
	c.gen++
	c.setState(StateConnecting)

	gen, dial, delay, timeout := c.gen, c.dial, c.connectDelay, c.dialTimeout
	return func() tea.Msg {
		if old != nil {
			old.Teardown()
		}
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := dial(ctx)
		if err != nil {
			return connectedMsg{gen: gen, err: err}
		}
		if wait := delay - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
		return connectedMsg{gen: gen, transport: t}
	}
}

// Update applies one message. Messages for a retired transport are dropped.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case connectedMsg:
		if msg.gen != c.gen {
			return teardownCmd(msg.transport)
		}
		if msg.err != nil {
			c.logger.Error().Err(msg.err).Msg("connect failed")
			c.notify(noticeConnectFailed)
			c.setState(StateDisconnected)
			return nil
		}
		c.transport = msg.transport
		return tea.Batch(c.listen(c.gen, c.transport.Events()), c.startup())

	case createdMsg:
		if msg.gen != c.gen {
			return nil
		}
		c.pending = opNone
		if msg.err != nil {
			c.logger.Error().Err(msg.err).Msg("create room failed")
			c.notify(noticeCreateFailed)
			// The transport is not trusted after a failed create.
			return c.reload()
		}
		c.enterRoom(msg.roomID, nil)
		return nil

	case joinedMsg:
		if msg.gen != c.gen {
			return nil
		}
		c.pending = opNone
		if msg.err != nil {
			c.logger.Error().Err(msg.err).Str("room", msg.roomID).Bool("resume", msg.resume).Msg("join room failed")
			if msg.resume {
				c.notify(noticeResumeFailed)
				c.roomCode = ""
			} else {
				c.notify(noticeJoinFailed)
			}
			c.deferred = nil
			c.setState(StateIdle)
			return nil
		}
		c.enterRoom(msg.roomID, msg.history)
		return nil

	case eventMsg:
		if msg.gen != c.gen {
			return nil
		}
		if closed, ok := msg.ev.(client.Closed); ok {
			return c.disconnected(closed.Err)
		}
		c.handleEvent(msg.ev)
		return c.listen(c.gen, c.transport.Events())

	case streamEndedMsg:
		if msg.gen != c.gen || c.state == StateDisconnected {
			return nil
		}
		return c.disconnected(client.ErrClosed)

	case sentMsg:
		if msg.gen == c.gen && msg.err != nil {
			c.logger.Warn().Err(msg.err).Msg("send failed")
			c.notify(noticeSendFailed)
		}
		return nil

	case typingSentMsg:
		if msg.gen != c.gen {
			return nil
		}
		c.typingInFlight = false
		if msg.err != nil {
			c.logger.Warn().Err(msg.err).Msg("typing notification failed")
			c.notify(noticeTypingFailed)
		}
		if c.typingNext != nil && c.state == StateInRoom {
			next := *c.typingNext
			c.typingNext = nil
			return c.sendTyping(next)
		}
		return nil
	}
	return nil
}

// startup runs once per fresh transport: adopt the remembered identity and
// resume the remembered room unless it was left on purpose.
func (c *Controller) startup() tea.Cmd {
	sess, ok, err := c.store.Load()
	if err != nil {
		c.logger.Error().Err(err).Msg("load session")
		ok = false
	}
	if ok && sess.Identity.Nickname != "" {
		c.identity = sess.Identity
		if domain.IconIndex(c.identity.Icon) < 0 {
			c.identity.Icon = domain.DefaultIcon
		}
	}
	if ok && !sess.Stale && sess.RoomID != "" {
		c.setState(StateResuming)
		c.roomCode = sess.RoomID
		return c.joinCmd(sess.RoomID, true)
	}
	c.setState(StateIdle)
	return nil
}

func (c *Controller) enterRoom(roomID string, history []domain.ChatEvent) {
	c.roomCode = roomID
	c.log.Reset()
	c.log.AppendAll(history)
	c.log.AppendAll(c.deferred)
	c.deferred = nil
	c.persist()
	if err := c.store.MarkStale(false); err != nil {
		c.logger.Error().Err(err).Msg("mark session fresh")
		c.notify(noticeStorageFailed)
	}
	c.setState(StateInRoom)
	c.logger.Info().Str("room", roomID).Int("history", len(history)).Msg("entered room")
}

func (c *Controller) handleEvent(ev client.Event) {
	switch e := ev.(type) {
	case client.IdentityAssigned:
		c.selfID = e.ConnectionID
	case client.MessageReceived:
		switch {
		case c.state == StateInRoom:
			c.log.Append(e.Message)
		case c.pending != opNone || c.state == StateResuming:
			c.deferred = append(c.deferred, e.Message)
		}
	case client.RosterChanged:
		c.roster.Replace(e.Participants)
	case client.TypingChanged:
		c.anyoneTyping = e.AnyoneTyping
		if e.AnyoneTyping {
			c.typingIDs = e.UsersTyping
		} else {
			c.typingIDs = nil
		}
	case client.Unknown:
		c.logger.Debug().Str("type", e.Type).Msg("ignoring unknown event")
	default:
		c.logger.Debug().Type("event", ev).Msg("ignoring unhandled event")
	}
}

// disconnected retires the transport after an unsolicited close.
func (c *Controller) disconnected(cause error) tea.Cmd {
	if cause == nil {
		cause = client.ErrClosed
	}
	c.logger.Error().Err(cause).Str("state", c.state.String()).Msg("transport closed")
	old := c.transport
	c.transport = nil
	c.gen++
	c.pending = opNone
	c.typingInFlight = false
	c.typingNext = nil
	c.notify(noticeConnLost)
	c.setState(StateDisconnected)
	return teardownCmd(old)
}

// persist saves the current code and identity; partial codes are skipped by the store.
func (c *Controller) persist() {
	if _, err := c.store.Save(c.roomCode, c.identity); err != nil {
		c.logger.Error().Err(err).Msg("save session")
		c.notify(noticeStorageFailed)
	}
}

func (c *Controller) notify(text string) {
	c.notice = text
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug().Str("from", c.state.String()).Str("state", s.String()).Msg("state change")
	c.state = s
}

// waitForEvent delivers the next pushed event as a message.
func waitForEvent(gen int, events <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamEndedMsg{gen: gen}
		}
		return eventMsg{gen: gen, ev: ev}
	}
}

func teardownCmd(t Transport) tea.Cmd {
	if t == nil {
		return nil
	}
	return func() tea.Msg {
		t.Teardown()
		return nil
	}
}
