package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/telechat/internal/session"
	"github.com/naveenspark/telechat/pkg/client"
	"github.com/naveenspark/telechat/pkg/domain"
)

const testRoom = "abcd1234abcd1234"

type sentFrame struct {
	eventType string
	payload   any
}

type fakeTransport struct {
	mu        sync.Mutex
	createID  string
	createErr error
	history   []domain.ChatEvent
	joinErr   error
	sendErr   error
	joins     []string
	sent      []sentFrame
	events    chan client.Event
	teardowns int
}

func newFake() *fakeTransport {
	return &fakeTransport{createID: testRoom, events: make(chan client.Event)}
}

func (f *fakeTransport) CreateRoom(_ context.Context, _, _ string) (string, error) {
	return f.createID, f.createErr
}

func (f *fakeTransport) JoinRoom(_ context.Context, _, roomID, _ string) ([]domain.ChatEvent, error) {
	f.mu.Lock()
	f.joins = append(f.joins, roomID)
	f.mu.Unlock()
	return f.history, f.joinErr
}

func (f *fakeTransport) Send(_ context.Context, eventType string, payload any) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentFrame{eventType, payload})
	f.mu.Unlock()
	return f.sendErr
}

func (f *fakeTransport) Events() <-chan client.Event { return f.events }

func (f *fakeTransport) Teardown() {
	f.mu.Lock()
	f.teardowns++
	f.mu.Unlock()
}

// fakeDialer hands out transports in order and counts dials.
type fakeDialer struct {
	transports []*fakeTransport
	err        error
	dials      int
}

func (d *fakeDialer) dial(context.Context) (Transport, error) {
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	if len(d.transports) == 0 {
		return newFake(), nil
	}
	t := d.transports[0]
	if len(d.transports) > 1 {
		d.transports = d.transports[1:]
	}
	return t, nil
}

func newTestController(d *fakeDialer, store *session.Store) *Controller {
	c := New(d.dial, store, Options{DialTimeout: time.Second})
	c.listen = func(int, <-chan client.Event) tea.Cmd { return nil }
	return c
}

// drive runs cmd and every command it produces, feeding results to Update.
func drive(c *Controller, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			drive(c, sub)
		}
		return
	}
	if msg == nil {
		return
	}
	drive(c, c.Update(msg))
}

func push(c *Controller, ev client.Event) {
	drive(c, c.Update(eventMsg{gen: c.gen, ev: ev}))
}

func startIdle(t *testing.T, d *fakeDialer, store *session.Store) *Controller {
	t.Helper()
	c := newTestController(d, store)
	drive(c, c.Init())
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	return c
}

func savedSession(t *testing.T, roomID string, id domain.Identity, stale bool) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryKV())
	if _, err := store.Save(roomID, id); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.MarkStale(stale); err != nil {
		t.Fatalf("MarkStale() error: %v", err)
	}
	return store
}

var amy = domain.Identity{Nickname: "Amy", Icon: "🦁"}

func TestNewControllerStartsConnecting(t *testing.T) {
	c := newTestController(&fakeDialer{}, session.NewStore(session.NewMemoryKV()))
	if c.State() != StateConnecting {
		t.Errorf("state = %v, want connecting", c.State())
	}
	if c.Identity().Icon != domain.DefaultIcon {
		t.Errorf("icon = %q, want default", c.Identity().Icon)
	}
}

func TestStartupWithoutSessionIsIdle(t *testing.T) {
	d := &fakeDialer{}
	startIdle(t, d, session.NewStore(session.NewMemoryKV()))
	if d.dials != 1 {
		t.Errorf("dials = %d, want 1", d.dials)
	}
}

func TestDialFailureDisconnects(t *testing.T) {
	d := &fakeDialer{err: errors.New("refused")}
	c := newTestController(d, session.NewStore(session.NewMemoryKV()))
	drive(c, c.Init())
	if c.State() != StateDisconnected {
		t.Fatalf("state = %v, want disconnected", c.State())
	}
	if c.Notice() != noticeConnectFailed {
		t.Errorf("notice = %q", c.Notice())
	}

	d.err = nil
	drive(c, c.Reload())
	if c.State() != StateIdle {
		t.Errorf("state after reload = %v, want idle", c.State())
	}
}

func TestConnectingLastsAtLeastConnectDelay(t *testing.T) {
	const delay = 150 * time.Millisecond
	d := &fakeDialer{}
	c := New(d.dial, session.NewStore(session.NewMemoryKV()), Options{ConnectDelay: delay, DialTimeout: time.Second})
	c.listen = func(int, <-chan client.Event) tea.Cmd { return nil }

	cmd := c.Init()
	start := time.Now()
	msg := cmd()
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("connected after %v, want at least %v", elapsed, delay)
	}
	if _, ok := msg.(connectedMsg); !ok {
		t.Fatalf("msg = %T, want connectedMsg", msg)
	}
	if c.State() != StateConnecting {
		t.Errorf("state before result = %v, want connecting", c.State())
	}
	drive(c, c.Update(msg))
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestSlowDialAddsNoConnectDelay(t *testing.T) {
	const (
		dialTime = 200 * time.Millisecond
		delay    = 150 * time.Millisecond
	)
	d := &fakeDialer{}
	slow := func(ctx context.Context) (Transport, error) {
		time.Sleep(dialTime)
		return d.dial(ctx)
	}
	c := New(slow, session.NewStore(session.NewMemoryKV()), Options{ConnectDelay: delay, DialTimeout: time.Second})

	cmd := c.Init()
	start := time.Now()
	cmd()
	elapsed := time.Since(start)
	if elapsed < dialTime {
		t.Errorf("connected after %v, before the dial finished", elapsed)
	}
	if elapsed >= dialTime+delay-20*time.Millisecond {
		t.Errorf("connected after %v; the delay was added on top of a %v dial", elapsed, dialTime)
	}
}

func TestResumeEntersRoomDirectly(t *testing.T) {
	ft := newFake()
	ft.history = []domain.ChatEvent{
		domain.SystemMessage{Text: "Amy created the party"},
		domain.UserMessage{PermID: "c1", Identity: amy, Body: "hi"},
	}
	d := &fakeDialer{transports: []*fakeTransport{ft}}
	c := newTestController(d, savedSession(t, testRoom, amy, false))

	drive(c, c.Init())

	if c.State() != StateInRoom {
		t.Fatalf("state = %v, want in_room", c.State())
	}
	if len(ft.joins) != 1 || ft.joins[0] != testRoom {
		t.Errorf("joins = %v, want [%s]", ft.joins, testRoom)
	}
	if c.Identity() != amy {
		t.Errorf("identity = %+v, want %+v", c.Identity(), amy)
	}
	if got := len(c.Messages()); got != 2 {
		t.Errorf("messages = %d, want 2", got)
	}
	if c.RoomCode() != testRoom {
		t.Errorf("room code = %q", c.RoomCode())
	}
}

func TestStaleSessionKeepsIdentityButDoesNotResume(t *testing.T) {
	ft := newFake()
	d := &fakeDialer{transports: []*fakeTransport{ft}}
	c := startIdle(t, d, savedSession(t, testRoom, amy, true))
	if len(ft.joins) != 0 {
		t.Errorf("stale session was resumed: joins = %v", ft.joins)
	}
	if c.Identity() != amy {
		t.Errorf("identity = %+v, want %+v", c.Identity(), amy)
	}
}

func TestResumeFailureClearsRoomCode(t *testing.T) {
	ft := newFake()
	ft.joinErr = errors.New("no such room")
	d := &fakeDialer{transports: []*fakeTransport{ft}}
	store := savedSession(t, testRoom, amy, false)
	c := newTestController(d, store)

	drive(c, c.Init())

	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if c.RoomCode() != "" {
		t.Errorf("room code = %q, want empty", c.RoomCode())
	}
	if c.Identity() != amy {
		t.Errorf("identity lost: %+v", c.Identity())
	}
	if c.Notice() != noticeResumeFailed {
		t.Errorf("notice = %q", c.Notice())
	}
	sess, ok, err := store.Load()
	if err != nil || !ok || sess.RoomID != testRoom {
		t.Errorf("stored session changed: %+v ok=%v err=%v", sess, ok, err)
	}
}

func TestCreateEntersRoomAndPersists(t *testing.T) {
	store := session.NewStore(session.NewMemoryKV())
	c := startIdle(t, &fakeDialer{}, store)
	c.SetNickname("Amy")
	c.SetIcon("🦁")

	drive(c, c.Create())

	if c.State() != StateInRoom {
		t.Fatalf("state = %v, want in_room", c.State())
	}
	if c.RoomCode() != testRoom {
		t.Errorf("room code = %q, want %q", c.RoomCode(), testRoom)
	}
	if len(c.Messages()) != 0 {
		t.Errorf("new room has %d messages", len(c.Messages()))
	}
	sess, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if sess.RoomID != testRoom || sess.Identity != amy || sess.Stale {
		t.Errorf("stored = %+v", sess)
	}
}

func TestCreateFailureReconnects(t *testing.T) {
	first := newFake()
	first.createErr = errors.New("boom")
	second := newFake()
	d := &fakeDialer{transports: []*fakeTransport{first, second}}
	c := startIdle(t, d, session.NewStore(session.NewMemoryKV()))
	c.SetNickname("Amy")

	drive(c, c.Create())

	if d.dials != 2 {
		t.Errorf("dials = %d, want 2", d.dials)
	}
	if first.teardowns != 1 {
		t.Errorf("old transport teardowns = %d, want 1", first.teardowns)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if c.Notice() != noticeCreateFailed {
		t.Errorf("notice = %q", c.Notice())
	}
	if c.Identity().Nickname != "Amy" {
		t.Errorf("nickname lost after reload: %+v", c.Identity())
	}
}

func TestJoinFailureStaysIdle(t *testing.T) {
	ft := newFake()
	ft.joinErr = errors.New("no such room")
	d := &fakeDialer{transports: []*fakeTransport{ft}}
	c := startIdle(t, d, session.NewStore(session.NewMemoryKV()))
	c.SetNickname("Bo")
	c.SetRoomCode(testRoom)

	drive(c, c.Join())

	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if c.Notice() != noticeJoinFailed {
		t.Errorf("notice = %q", c.Notice())
	}
	if d.dials != 1 {
		t.Errorf("dials = %d, want 1", d.dials)
	}
	if c.RoomCode() != testRoom {
		t.Errorf("room code = %q, want it kept for another try", c.RoomCode())
	}
}

func TestValidationBlocksActions(t *testing.T) {
	tests := []struct {
		name   string
		nick   string
		code   string
		act    func(*Controller) tea.Cmd
		notice string
	}{
		{"create without nickname", "", "", (*Controller).Create, "You must enter a nickname to join a room."},
		{"create with blank nickname", "   ", "", (*Controller).Create, "You must enter a nickname to join a room."},
		{"join without nickname", "", testRoom, (*Controller).Join, "You must enter a nickname to join a room."},
		{"join with short code", "Bo", "abc", (*Controller).Join, "Room code must be 16 letters or digits."},
		{"join with symbols", "Bo", "abcd-234abcd1234", (*Controller).Join, "Room code must be 16 letters or digits."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFake()
			c := startIdle(t, &fakeDialer{transports: []*fakeTransport{ft}}, session.NewStore(session.NewMemoryKV()))
			c.SetNickname(tt.nick)
			c.SetRoomCode(tt.code)
			if cmd := tt.act(c); cmd != nil {
				t.Error("expected no command")
			}
			if c.Notice() != tt.notice {
				t.Errorf("notice = %q, want %q", c.Notice(), tt.notice)
			}
			if c.Busy() || c.State() != StateIdle {
				t.Errorf("state changed: busy=%v state=%v", c.Busy(), c.State())
			}
			c.DismissNotice()
			if c.Notice() != "" {
				t.Error("DismissNotice did not clear")
			}
		})
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := validateRoomCode("nope")
	if !IsValidation(err) {
		t.Errorf("IsValidation(%v) = false", err)
	}
	if !errors.Is(err, domain.ErrInvalidRoomCode) {
		t.Errorf("errors.Is(%v, ErrInvalidRoomCode) = false", err)
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation matched a plain error")
	}
}

func TestPartialRoomCodeIsNotPersisted(t *testing.T) {
	store := savedSession(t, testRoom, amy, true)
	c := startIdle(t, &fakeDialer{}, store)

	c.SetRoomCode("zzzz")
	c.SetNickname("Someone")

	sess, _, _ := store.Load()
	if sess.RoomID != testRoom || sess.Identity != amy {
		t.Errorf("partial code overwrote session: %+v", sess)
	}

	c.SetRoomCode("zzzz1234zzzz1234")
	sess, _, _ = store.Load()
	if sess.RoomID != "zzzz1234zzzz1234" || sess.Identity.Nickname != "Someone" {
		t.Errorf("complete code not saved: %+v", sess)
	}
}

func TestEditsIgnoredOutsideIdle(t *testing.T) {
	c := newTestController(&fakeDialer{}, session.NewStore(session.NewMemoryKV()))
	if c.SetNickname("x") || c.SetRoomCode(testRoom) || c.SetIcon("🦁") {
		t.Error("edits accepted while connecting")
	}
	drive(c, c.Init())
	if c.SetIcon("not-an-icon") {
		t.Error("icon outside the palette accepted")
	}
}

func TestMessagesDuringJoinAreAppendedAfterHistory(t *testing.T) {
	ft := newFake()
	ft.history = []domain.ChatEvent{domain.SystemMessage{Text: "Amy created the party"}}
	c := startIdle(t, &fakeDialer{transports: []*fakeTransport{ft}}, session.NewStore(session.NewMemoryKV()))
	c.SetNickname("Bo")
	c.SetRoomCode(testRoom)

	cmd := c.Join()
	push(c, client.MessageReceived{Message: domain.SystemMessage{Text: "Bo joined the party"}})
	drive(c, cmd)

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if s, _ := msgs[1].(domain.SystemMessage); s.Text != "Bo joined the party" {
		t.Errorf("last message = %#v", msgs[1])
	}
}

func TestMessagesOutsideRoomAreDropped(t *testing.T) {
	c := startIdle(t, &fakeDialer{}, session.NewStore(session.NewMemoryKV()))
	push(c, client.MessageReceived{Message: domain.SystemMessage{Text: "noise"}})
	if len(c.Messages()) != 0 {
		t.Errorf("idle controller kept %d messages", len(c.Messages()))
	}
}

func inRoom(t *testing.T, ft *fakeTransport) *Controller {
	t.Helper()
	c := newTestController(&fakeDialer{transports: []*fakeTransport{ft}}, savedSession(t, testRoom, amy, false))
	drive(c, c.Init())
	if c.State() != StateInRoom {
		t.Fatalf("state = %v, want in_room", c.State())
	}
	return c
}

func TestRoomEvents(t *testing.T) {
	c := inRoom(t, newFake())

	push(c, client.IdentityAssigned{ConnectionID: "c1"})
	push(c, client.RosterChanged{Participants: []domain.Participant{
		{ConnectionID: "c1", Identity: amy},
		{ConnectionID: "c2", Identity: domain.Identity{Nickname: "Bo", Icon: "🐰"}},
	}})
	push(c, client.TypingChanged{AnyoneTyping: true, UsersTyping: []string{"c2", "ghost"}})
	push(c, client.MessageReceived{Message: domain.UserMessage{PermID: "c2", Identity: domain.Identity{Nickname: "Bo", Icon: "🐰"}, Body: "hey"}})
	push(c, client.Unknown{Type: "videoSync"})

	if c.ParticipantCount() != 2 {
		t.Errorf("participants = %d, want 2", c.ParticipantCount())
	}
	if got := c.Typing(); len(got) != 1 || got[0] != "Bo" {
		t.Errorf("typing = %v, want [Bo]", got)
	}
	if len(c.Messages()) != 1 {
		t.Errorf("messages = %d, want 1", len(c.Messages()))
	}
	if c.State() != StateInRoom {
		t.Errorf("unknown event changed state to %v", c.State())
	}

	// Bo leaves while still marked typing: the name disappears with the roster.
	push(c, client.RosterChanged{Participants: []domain.Participant{{ConnectionID: "c1", Identity: amy}}})
	if got := c.Typing(); len(got) != 0 {
		t.Errorf("typing after leave = %v, want none", got)
	}

	push(c, client.TypingChanged{AnyoneTyping: false, UsersTyping: []string{"c1"}})
	if got := c.Typing(); len(got) != 0 {
		t.Errorf("typing with anyoneTyping=false = %v", got)
	}
}

func TestBlocksUseSelfIDWhileLookalikePresent(t *testing.T) {
	c := inRoom(t, newFake())
	push(c, client.IdentityAssigned{ConnectionID: "c1"})
	push(c, client.RosterChanged{Participants: []domain.Participant{
		{ConnectionID: "c1", Identity: amy},
		{ConnectionID: "c2", Identity: amy},
	}})
	push(c, client.MessageReceived{Message: domain.UserMessage{PermID: "c2", Identity: amy, Body: "imposter"}})
	push(c, client.MessageReceived{Message: domain.SystemMessage{Text: "break"}})
	push(c, client.MessageReceived{Message: domain.UserMessage{PermID: "c1", Identity: amy, Body: "me"}})

	blocks := c.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[0].Mine {
		t.Error("message from another connection rendered as mine")
	}
	if !blocks[2].Mine {
		t.Error("own message not rendered as mine")
	}
}

func TestBlocksIgnoreSenderIDWithoutLookalike(t *testing.T) {
	c := inRoom(t, newFake())
	push(c, client.IdentityAssigned{ConnectionID: "c1"})
	push(c, client.RosterChanged{Participants: []domain.Participant{
		{ConnectionID: "c1", Identity: amy},
		{ConnectionID: "c2", Identity: domain.Identity{Nickname: "Bo", Icon: "🐰"}},
	}})
	// The server's permId need not match the userId namespace.
	push(c, client.MessageReceived{Message: domain.UserMessage{PermID: "perm-77", Identity: amy, Body: "mine"}})

	blocks := c.Blocks()
	if len(blocks) != 1 || !blocks[0].Mine {
		t.Errorf("blocks = %+v, want one block marked mine", blocks)
	}
}

func TestSend(t *testing.T) {
	ft := newFake()
	c := inRoom(t, ft)

	if cmd := c.Send("   "); cmd != nil {
		t.Error("blank message produced a command")
	}
	drive(c, c.Send("hello"))

	if len(ft.sent) != 1 {
		t.Fatalf("sent = %d frames, want 1", len(ft.sent))
	}
	if ft.sent[0].eventType != client.TypeSendMessage {
		t.Errorf("type = %q", ft.sent[0].eventType)
	}
	if p, ok := ft.sent[0].payload.(client.MessagePayload); !ok || p.Body != "hello" {
		t.Errorf("payload = %#v", ft.sent[0].payload)
	}
}

func TestSendFailureSetsNotice(t *testing.T) {
	ft := newFake()
	c := inRoom(t, ft)
	ft.sendErr = errors.New("write failed")
	drive(c, c.Send("hello"))
	if c.Notice() != noticeSendFailed {
		t.Errorf("notice = %q", c.Notice())
	}
}

func TestTypingUpdatesCollapse(t *testing.T) {
	ft := newFake()
	c := inRoom(t, ft)

	first := c.SetTyping(true)
	if first == nil {
		t.Fatal("first SetTyping returned nil")
	}
	if c.SetTyping(false) != nil || c.SetTyping(true) != nil || c.SetTyping(false) != nil {
		t.Error("SetTyping issued a second request while one was in flight")
	}
	drive(c, first)

	if len(ft.sent) != 2 {
		t.Fatalf("sent = %d typing frames, want 2", len(ft.sent))
	}
	want := []bool{true, false}
	for i, f := range ft.sent {
		p, ok := f.payload.(client.TypingPayload)
		if !ok || f.eventType != client.TypeTyping || p.Typing != want[i] {
			t.Errorf("frame %d = %+v, want typing=%v", i, f, want[i])
		}
	}
}

func TestLeaveMarksStaleAndReconnects(t *testing.T) {
	first := newFake()
	d := &fakeDialer{transports: []*fakeTransport{first, newFake()}}
	store := savedSession(t, testRoom, amy, false)
	c := newTestController(d, store)
	drive(c, c.Init())
	push(c, client.MessageReceived{Message: domain.SystemMessage{Text: "x"}})

	drive(c, c.Leave())

	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if len(c.Messages()) != 0 || c.ParticipantCount() != 0 {
		t.Error("room state survived leave")
	}
	if first.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", first.teardowns)
	}
	if stale, _ := store.Stale(); !stale {
		t.Error("session not marked stale")
	}

	// A restart on the same store lands on the form.
	next := newTestController(&fakeDialer{}, store)
	drive(next, next.Init())
	if next.State() != StateIdle {
		t.Errorf("restart state = %v, want idle", next.State())
	}
}

func TestClosedEventDisconnects(t *testing.T) {
	ft := newFake()
	c := inRoom(t, ft)

	cmd := c.Update(eventMsg{gen: c.gen, ev: client.Closed{Err: errors.New("going away")}})

	if c.State() != StateDisconnected {
		t.Fatalf("state = %v, want disconnected", c.State())
	}
	if ft.teardowns != 0 {
		t.Fatalf("transport torn down inside Update")
	}
	if cmd == nil {
		t.Fatal("no teardown command returned")
	}
	cmd()
	if ft.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", ft.teardowns)
	}
	if c.Notice() != noticeConnLost {
		t.Errorf("notice = %q", c.Notice())
	}
	if c.Send("late") != nil || c.SetTyping(true) != nil || c.Leave() != nil {
		t.Error("room actions allowed while disconnected")
	}
}

func TestStreamEndDisconnects(t *testing.T) {
	ft := newFake()
	c := inRoom(t, ft)
	drive(c, c.Update(streamEndedMsg{gen: c.gen}))
	if c.State() != StateDisconnected {
		t.Errorf("state = %v, want disconnected", c.State())
	}
	if ft.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", ft.teardowns)
	}
}

func TestStaleMessagesAreDropped(t *testing.T) {
	c := inRoom(t, newFake())
	old := c.gen

	drive(c, c.Leave())

	push(c, client.RosterChanged{Participants: []domain.Participant{{ConnectionID: "c1", Identity: amy}}})
	c.Update(eventMsg{gen: old, ev: client.Closed{}})
	if c.State() == StateDisconnected {
		t.Error("event from a retired transport disconnected the controller")
	}

	late := newFake()
	drive(c, c.Update(connectedMsg{gen: old, transport: late}))
	if late.teardowns != 1 {
		t.Errorf("late transport teardowns = %d, want 1", late.teardowns)
	}
}

func TestReloadOnlyFromDisconnected(t *testing.T) {
	c := startIdle(t, &fakeDialer{}, session.NewStore(session.NewMemoryKV()))
	if c.Reload() != nil {
		t.Error("Reload allowed while idle")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateIdle:         "idle",
		StateResuming:     "resuming",
		StateInRoom:       "in_room",
		State(99):         "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
