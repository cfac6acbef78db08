package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/telechat/internal/chat"
	"github.com/naveenspark/telechat/internal/room"
)

// roomModel is the in-room chat view.
type roomModel struct {
	input  string
	scroll int
	typing bool // last typing state sent to the room
}

func (m roomModel) Update(msg tea.KeyMsg, c *room.Controller) (roomModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		body := m.input
		m.input = ""
		m.scroll = 0
		var typingCmd tea.Cmd
		m, typingCmd = m.setTyping(c, false)
		return m, tea.Batch(c.Send(body), typingCmd)
	case "pgup", "up":
		m.scroll++
		return m, nil
	case "pgdown", "down":
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	}

	m.input = editKey(m.input, msg, maxInputLen)
	return m.setTyping(c, m.input != "")
}

// setTyping notifies the room only when the composing state flips.
func (m roomModel) setTyping(c *room.Controller, typing bool) (roomModel, tea.Cmd) {
	if m.typing == typing {
		return m, nil
	}
	m.typing = typing
	return m, c.SetTyping(typing)
}

func (m roomModel) View(c *room.Controller, width, height, frame int, copied bool, now time.Time) string {
	var b strings.Builder

	// Header: room code, copy acknowledgment, participant count.
	header := " " + fieldLabelStyle.Render("room ") + selectedStyle.Render(c.RoomCode())
	if copied {
		header += "  " + copiedStyle.Render("copied!")
	}
	header += "  " + presenceDotStyle.Render("●") + dimStyle.Render(fmt.Sprintf(" %d here", c.ParticipantCount()))
	b.WriteString(header + "\n")

	// header(1) + typing(1) + input(1)
	viewportHeight := height - 3
	if viewportHeight < 2 {
		viewportHeight = 2
	}

	blocks := c.Blocks()
	if len(blocks) == 0 {
		padLines(viewportHeight-1, &b)
		b.WriteString(" " + dimStyle.Render("no messages yet · share the room code to invite someone") + "\n")
	} else {
		b.WriteString(renderBlocks(blocks, width, viewportHeight, m.scroll, now))
	}

	if text := chat.TypingText(c.Typing()); text != "" {
		b.WriteString(" " + typingStyle.Render(text))
	}
	b.WriteByte('\n')

	id := c.Identity()
	b.WriteString(renderChatInput(id.Icon, id.Nickname, m.input, "say something...", frame))
	b.WriteByte('\n')
	return b.String()
}

// renderBlocks renders grouped messages clipped to viewportHeight lines,
// respecting the scroll offset. Newest messages appear at the bottom.
func renderBlocks(blocks []chat.Block, width, viewportHeight, scroll int, now time.Time) string {
	var allLines []string
	for _, blk := range blocks {
		allLines = append(allLines, renderBlock(blk, width, now)...)
	}

	total := len(allLines)

	maxScroll := total - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}

	end := total - scroll
	start := end - viewportHeight
	if start < 0 {
		start = 0
	}

	visible := allLines[start:end]

	var b strings.Builder
	for i := len(visible); i < viewportHeight; i++ {
		b.WriteByte('\n')
	}
	for _, line := range visible {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// renderBlock renders one block as terminal lines. System messages are
// centered; the local user's messages are right-aligned.
func renderBlock(blk chat.Block, width int, now time.Time) []string {
	if blk.System {
		return []string{centerLine(chatSysStyle.Render(fmt.Sprintf("— %s —", blk.Text)), width)}
	}

	bodyWidth := width - 14
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	var lines []string
	if blk.Mine {
		lines = append(lines, alignRight(chatSelfNameStyle.Render(truncStr(blk.Sender.Nickname, maxNicknameLen))+" "+blk.Sender.Icon, width))
	} else {
		lines = append(lines, " "+blk.Sender.Icon+" "+chatNameStyle.Render(truncStr(blk.Sender.Nickname, maxNicknameLen)))
	}

	for _, msg := range blk.Messages {
		timeStr := metaStyle.Render(fmt.Sprintf("%8s", formatChatTime(msg.Timestamp, now)))
		wrapped := wrapBody(msg.Body, bodyWidth)
		for i, line := range wrapped {
			if blk.Mine {
				text := chatSelfTextStyle.Render(line)
				if i == 0 {
					text += "  " + timeStr
				} else {
					text += strings.Repeat(" ", 10)
				}
				lines = append(lines, alignRight(text, width))
				continue
			}
			prefix := strings.Repeat(" ", 11)
			if i == 0 {
				prefix = " " + timeStr + "  "
			}
			lines = append(lines, prefix+chatTextStyle.Render(line))
		}
	}
	return lines
}

// wrapBody word-wraps body to width, hard-breaking long tokens.
func wrapBody(body string, width int) []string {
	wrapped := hardWrap(lipgloss.NewStyle().Width(width).Render(body), width)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func alignRight(s string, width int) string {
	return lipgloss.PlaceHorizontal(width-1, lipgloss.Right, s)
}
