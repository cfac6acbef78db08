package chat

import "strings"

// TypingNames resolves a typing snapshot to display names. When anyoneTyping
// is false the result is empty whatever usersTyping holds.
func TypingNames(anyoneTyping bool, usersTyping []string, roster *Roster) []string {
	if !anyoneTyping || len(usersTyping) == 0 {
		return nil
	}
	ids := make(map[string]struct{}, len(usersTyping))
	for _, id := range usersTyping {
		ids[id] = struct{}{}
	}
	return roster.LookupNicknames(ids)
}

// TypingText renders the typing indicator line; "" means show nothing.
func TypingText(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is typing..."
	default:
		return strings.Join(names, ", ") + " are typing..."
	}
}
