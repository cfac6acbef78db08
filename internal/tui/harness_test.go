package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/telechat/internal/room"
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
	mu     sync.Mutex
	sent   []sentFrame
	events chan client.Event
}

func (f *fakeTransport) CreateRoom(context.Context, string, string) (string, error) {
	return testRoom, nil
}

func (f *fakeTransport) JoinRoom(context.Context, string, string, string) ([]domain.ChatEvent, error) {
	return nil, nil
}

func (f *fakeTransport) Send(_ context.Context, eventType string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentFrame{eventType, payload})
	return nil
}

func (f *fakeTransport) Events() <-chan client.Event { return f.events }

func (f *fakeTransport) Teardown() {}

func (f *fakeTransport) frames() []sentFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentFrame(nil), f.sent...)
}

// harness drives an App the way the bubbletea runtime would. Commands that
// do not finish promptly (the event listener, timers) are parked and only
// collected when the test pushes an event.
type harness struct {
	t      *testing.T
	app    App
	ft     *fakeTransport // most recently dialed transport
	dials  int
	parked []chan tea.Msg
	copies []string
	store  *session.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, store: session.NewStore(session.NewMemoryKV())}
	dial := func(context.Context) (room.Transport, error) {
		h.dials++
		h.ft = &fakeTransport{events: make(chan client.Event, 16)}
		return h.ft, nil
	}
	ctrl := room.New(dial, h.store, room.Options{})
	h.app = NewApp(ctrl, Options{
		CopyAckWindow: time.Hour,
		Clipboard: func(text string) error {
			h.copies = append(h.copies, text)
			return nil
		},
		Now: func() time.Time { return time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC) },
	})
	h.app.width = 80
	h.app.height = 24
	h.run(h.app.Init())
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		h.deliver(msg)
	case <-time.After(100 * time.Millisecond):
		h.parked = append(h.parked, ch)
	}
}

func (h *harness) deliver(msg tea.Msg) {
	switch m := msg.(type) {
	case nil, shimmerTickMsg:
		return
	case tea.BatchMsg:
		for _, c := range m {
			h.run(c)
		}
		return
	}
	h.update(msg)
}

func (h *harness) update(msg tea.Msg) {
	model, cmd := h.app.Update(msg)
	h.app = model.(App)
	h.run(cmd)
}

func (h *harness) key(k string) {
	h.update(keyMsg(k))
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// push delivers ev through the current transport and waits for the
// listener to hand it to the app.
func (h *harness) push(ev client.Event) {
	h.t.Helper()
	h.ft.events <- ev
	deadline := time.Now().Add(2 * time.Second)
scan:
	for time.Now().Before(deadline) {
		for i, ch := range h.parked {
			select {
			case msg := <-ch:
				h.parked = append(h.parked[:i], h.parked[i+1:]...)
				if _, tick := msg.(shimmerTickMsg); tick {
					continue scan
				}
				h.deliver(msg)
				return
			default:
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatal("pushed event was never delivered")
}

func (h *harness) state() room.State { return h.app.ctrl.State() }

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// enterRoom fills the form and creates a room.
func (h *harness) enterRoom(nickname string) {
	h.t.Helper()
	h.typeText(nickname)
	h.key("ctrl+n")
	if h.state() != room.StateInRoom {
		h.t.Fatalf("state = %v, want in_room", h.state())
	}
}
