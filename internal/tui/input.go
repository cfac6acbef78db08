package tui

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in chat and form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to limit runes.
func editRune(text string, key string, limit int) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= limit {
				return text
			}
			return text + key
		}
		return text
	}
}

// editKey applies a key message to text. Pasted runes arrive as one
// message and are inserted up to limit.
func editKey(text string, msg tea.KeyMsg, limit int) string {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		room := limit - utf8.RuneCountInString(text)
		if room <= 0 {
			return text
		}
		runes := msg.Runes
		if len(runes) > room {
			runes = runes[:room]
		}
		return text + string(runes)
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return editRune(text, string(msg.Runes), limit)
	}
	return editRune(text, msg.String(), limit)
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderChatInput renders the inline message input with the sender's
// icon and nickname, a blinking cursor, and a placeholder when empty.
func renderChatInput(icon, nickname, input, placeholder string, animFrame int) string {
	const timeIndent = "           " // matches " " + 8-char timestamp + "  "

	sep := chatSepStyle.Render(" · ")
	namePart := icon + " " + inputPromptStyle.Render(nickname)
	cursor := " "
	if (animFrame/4)%2 == 0 {
		cursor = accentStyle.Render("█")
	}
	if input == "" {
		return timeIndent + namePart + sep + cursor + inputPlaceholderStyle.Render(placeholder)
	}
	return timeIndent + namePart + sep + chatComposingStyle.Render(input) + cursor
}
