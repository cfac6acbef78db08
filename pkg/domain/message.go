package domain

import "time"

// ChatEvent is an entry in a room's message log: either a UserMessage or a
// SystemMessage. The set is closed; switch on the concrete type.
type ChatEvent interface {
	chatEvent()
}

// UserMessage is a message typed by a participant.
type UserMessage struct {
	// PermID is the sender id the server stamps on the message. It is
	// compared with the local userId only, never with roster ids.
	PermID    string
	Identity  Identity
	Body      string
	Timestamp time.Time
}

// SystemMessage is a notice generated by the room itself ("Amy joined the party").
type SystemMessage struct {
	Text string
}

func (UserMessage) chatEvent()   {}
func (SystemMessage) chatEvent() {}
