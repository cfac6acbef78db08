package domain

// Icons is the fixed palette a user picks their avatar glyph from.
var Icons = []string{
	"😎", "😀", "😂", "😭", "☠️",
	"🍌", "🍎", "🍓", "🍕", "🥑",
	"🦁", "🐰", "🐶", "🐥", "🦋",
}

// DefaultIcon is the icon selected before the user picks one.
const DefaultIcon = "😎"

// Identity is how a participant presents in a room.
type Identity struct {
	Nickname string `json:"userNickname"`
	Icon     string `json:"userIcon"`
}

// Same reports whether two identities are indistinguishable on screen
// (same icon and same nickname).
func (i Identity) Same(other Identity) bool {
	return i.Icon == other.Icon && i.Nickname == other.Nickname
}

// IconIndex returns the palette position of icon, or -1.
func IconIndex(icon string) int {
	for i, ic := range Icons {
		if ic == icon {
			return i
		}
	}
	return -1
}
