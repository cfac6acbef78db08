package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/telechat/internal/room"
	"github.com/naveenspark/telechat/pkg/domain"
)

type welcomeField int

const (
	fieldNickname welcomeField = iota
	fieldIcon
	fieldRoomCode
	numWelcomeFields
)

// maxNicknameLen caps the nickname input.
const maxNicknameLen = 32

// welcomeModel is the create/join form. Field values live in the
// controller; the form only tracks focus.
type welcomeModel struct {
	focus welcomeField
}

func (m welcomeModel) Update(msg tea.KeyMsg, c *room.Controller) (welcomeModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numWelcomeFields
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numWelcomeFields) % numWelcomeFields
		return m, nil
	case "ctrl+n":
		return m, c.Create()
	case "enter":
		if m.focus == fieldRoomCode {
			return m, c.Join()
		}
		return m, c.Create()
	}

	switch m.focus {
	case fieldNickname:
		c.SetNickname(editKey(c.Identity().Nickname, msg, maxNicknameLen))
	case fieldIcon:
		switch msg.String() {
		case "h", "left":
			c.SetIcon(stepIcon(c.Identity().Icon, -1))
		case "l", "right", " ":
			c.SetIcon(stepIcon(c.Identity().Icon, 1))
		}
	case fieldRoomCode:
		if msg.Type == tea.KeyRunes {
			// Room codes never contain whitespace; strip it from pastes.
			msg.Runes = []rune(strings.Join(strings.Fields(string(msg.Runes)), ""))
			if len(msg.Runes) == 0 {
				return m, nil
			}
		}
		if msg.Type == tea.KeySpace {
			return m, nil
		}
		c.SetRoomCode(editKey(c.RoomCode(), msg, domain.RoomCodeLen))
	}
	return m, nil
}

// stepIcon moves through the palette, wrapping at both ends.
func stepIcon(current string, delta int) string {
	n := len(domain.Icons)
	idx := domain.IconIndex(current)
	if idx < 0 {
		idx = 0
	}
	return domain.Icons[((idx+delta)%n+n)%n]
}

func (m welcomeModel) View(c *room.Controller, frame int) string {
	var b strings.Builder
	id := c.Identity()

	b.WriteString("\n")
	b.WriteString(m.label(fieldNickname, "nickname"))
	b.WriteString(m.textValue(fieldNickname, id.Nickname, "what should we call you?", frame))
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldIcon, "icon"))
	for i, icon := range domain.Icons {
		if icon == id.Icon {
			b.WriteString(accentStyle.Render("[") + icon + accentStyle.Render("]"))
		} else {
			b.WriteString(" " + icon + " ")
		}
		if i < len(domain.Icons)-1 {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldRoomCode, "room code"))
	b.WriteString(m.textValue(fieldRoomCode, c.RoomCode(), "16 letters or digits", frame))
	b.WriteString("\n\n")

	b.WriteString("   " + dimStyle.Render("ctrl+n creates a new room · enter on the room code joins it") + "\n")
	return b.String()
}

func (m welcomeModel) label(f welcomeField, name string) string {
	padded := name + strings.Repeat(" ", 11-len(name))
	if m.focus == f {
		return " " + inputPromptStyle.Render("> ") + selectedStyle.Render(padded)
	}
	return "   " + fieldLabelStyle.Render(padded)
}

func (m welcomeModel) textValue(f welcomeField, value, placeholder string, frame int) string {
	cursor := ""
	if m.focus == f && (frame/4)%2 == 0 {
		cursor = accentStyle.Render("█")
	}
	if value == "" {
		return cursor + inputPlaceholderStyle.Render(placeholder)
	}
	return chatComposingStyle.Render(value) + cursor
}

func (m welcomeModel) helpKeys() string {
	if m.focus == fieldIcon {
		return helpBar("tab", "next", "h/l", "icon", "enter", "create", "ctrl+c", "quit")
	}
	if m.focus == fieldRoomCode {
		return helpBar("tab", "next", "enter", "join", "ctrl+n", "create", "ctrl+c", "quit")
	}
	return helpBar("tab", "next", "enter", "create", "ctrl+c", "quit")
}
