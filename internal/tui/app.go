package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/telechat/internal/room"
)

// copyFailedNotice is shown when the room code cannot reach the clipboard.
const copyFailedNotice = "Failed to copy room code."

// copiedMsg carries the result of a clipboard write.
type copiedMsg struct {
	err error
}

// copyAckExpiredMsg ends the "copied" acknowledgment started by copy gen.
type copyAckExpiredMsg struct {
	gen int
}

// Options configures the App.
type Options struct {
	Version       string
	CopyAckWindow time.Duration
	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(text string) error
	// Now is the clock used for message timestamps. Defaults to time.Now.
	Now func() time.Time
}

// App is the root Bubbletea model.
type App struct {
	ctrl    *room.Controller
	opts    Options
	welcome welcomeModel
	room    roomModel
	width   int
	height  int
	frame   int // logo shimmer animation frame

	copied  bool
	copyGen int
	notice  string // UI-level notice; controller notices take precedence
}

// NewApp creates a new TUI application around a room controller.
func NewApp(ctrl *room.Controller, opts Options) App {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CopyAckWindow <= 0 {
		opts.CopyAckWindow = 1500 * time.Millisecond
	}
	return App{ctrl: ctrl, opts: opts}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.ctrl.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case copiedMsg:
		if msg.err != nil {
			a.notice = copyFailedNotice
			return a, nil
		}
		a.copied = true
		a.copyGen++
		gen := a.copyGen
		return a, tea.Tick(a.opts.CopyAckWindow, func(time.Time) tea.Msg {
			return copyAckExpiredMsg{gen: gen}
		})

	case copyAckExpiredMsg:
		if msg.gen == a.copyGen {
			a.copied = false
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a, a.afterController(a.ctrl.Update(msg))
}

func (a *App) afterController(cmd tea.Cmd) tea.Cmd {
	if a.ctrl.State() != room.StateInRoom {
		a.room = roomModel{}
		a.copied = false
	}
	return cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if key == "esc" {
		a.notice = ""
		a.ctrl.DismissNotice()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.ctrl.State() {
	case room.StateIdle:
		if a.ctrl.Busy() {
			return a, nil
		}
		a.welcome, cmd = a.welcome.Update(msg, a.ctrl)
	case room.StateInRoom:
		switch key {
		case "ctrl+y":
			return a, a.copyRoomCode()
		case "ctrl+l":
			cmd = a.ctrl.Leave()
		default:
			a.room, cmd = a.room.Update(msg, a.ctrl)
		}
	case room.StateDisconnected:
		switch key {
		case "r":
			a.notice = ""
			a.ctrl.DismissNotice()
			cmd = a.ctrl.Reload()
		case "q":
			return a, tea.Quit
		}
	}
	return a, a.afterController(cmd)
}

func (a App) copyRoomCode() tea.Cmd {
	code, write := a.ctrl.RoomCode(), a.opts.Clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(code)}
	}
}

func (a App) currentNotice() string {
	if n := a.ctrl.Notice(); n != "" {
		return n
	}
	return a.notice
}

func (a App) View() string {
	header := centerLine(renderShimmerLogo(a.frame), a.width) + "\n"
	if n := a.currentNotice(); n != "" {
		header += centerLine(noticeStyle.Render(n)+"  "+dimStyle.Render("(esc)"), a.width)
	} else if a.opts.Version != "" {
		header += centerLine(metaStyle.Render(a.opts.Version), a.width)
	}

	// Chrome: header(2) + help(1)
	bodyHeight := a.height - 3

	var body, help string
	switch state := a.ctrl.State(); {
	case state == room.StateConnecting:
		body = loadingView(bodyHeight, "connecting...")
		help = helpBar("ctrl+c", "quit")
	case state == room.StateResuming:
		body = loadingView(bodyHeight, "rejoining room "+a.ctrl.RoomCode()+"...")
		help = helpBar("ctrl+c", "quit")
	case state == room.StateIdle && a.ctrl.Busy():
		body = loadingView(bodyHeight, "loading...")
		help = helpBar("ctrl+c", "quit")
	case state == room.StateIdle:
		body = a.welcome.View(a.ctrl, a.frame)
		help = a.welcome.helpKeys()
	case state == room.StateInRoom:
		body = a.room.View(a.ctrl, a.width, bodyHeight, a.frame, a.copied, a.opts.Now())
		help = helpBar("enter", "send", "pgup/pgdn", "scroll", "ctrl+y", "copy code", "ctrl+l", "leave", "ctrl+c", "quit")
	case state == room.StateDisconnected:
		body = loadingView(bodyHeight, errorStyle.Render("disconnected from the chat server"))
		help = helpBar("r", "reload", "q", "quit")
	}

	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}

// loadingView renders a single status line near the bottom of the body.
func loadingView(height int, text string) string {
	var b strings.Builder
	padLines(height-1, &b)
	b.WriteString(" " + dimStyle.Render(text) + "\n")
	return b.String()
}
