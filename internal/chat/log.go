package chat

import "github.com/naveenspark/telechat/pkg/domain"

// Log is the append-only message history of a room, in arrival order.
type Log struct {
	events []domain.ChatEvent
}

// Append adds one event at the end.
func (l *Log) Append(ev domain.ChatEvent) {
	l.events = append(l.events, ev)
}

// AppendAll adds a batch (history replay) in one step.
func (l *Log) AppendAll(evs []domain.ChatEvent) {
	l.events = append(l.events, evs...)
}

// Reset drops everything; used when leaving or entering a room.
func (l *Log) Reset() {
	l.events = nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of the log so callers cannot mutate history.
func (l *Log) Events() []domain.ChatEvent {
	out := make([]domain.ChatEvent, len(l.events))
	copy(out, l.events)
	return out
}
