package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/naveenspark/telechat/pkg/domain"
)

// Message types on the wire.
const (
	TypeCreateSession = "createSession"
	TypeJoinSession   = "joinSession"
	TypeSendMessage   = "sendMessage"
	TypeTyping        = "setTypingPresence"
	TypeUserID        = "userId"
	TypeUserList      = "userList"
)

// envelope is the frame shape in both directions.
type envelope struct {
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data,omitempty"`
	CallbackID string          `json:"callbackId,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Event is something the server pushed. The set is closed: IdentityAssigned,
// MessageReceived, RosterChanged, TypingChanged, Unknown, Closed.
type Event interface {
	event()
}

// IdentityAssigned carries the connection id the server gave this socket.
type IdentityAssigned struct {
	ConnectionID string
}

// MessageReceived is a chat or system message broadcast to the room.
type MessageReceived struct {
	Message domain.ChatEvent
}

// RosterChanged is a full snapshot of who is connected.
type RosterChanged struct {
	Participants []domain.Participant
}

// TypingChanged is a full snapshot of who is typing.
type TypingChanged struct {
	AnyoneTyping bool
	UsersTyping  []string
}

// Unknown is any pushed frame whose type this client does not understand.
type Unknown struct {
	Type string
	Data json.RawMessage
}

// Closed is the last event on the stream when the server side went away.
// It is not sent after Teardown.
type Closed struct {
	Err error
}

func (IdentityAssigned) event() {}
func (MessageReceived) event()  {}
func (RosterChanged) event()    {}
func (TypingChanged) event()    {}
func (Unknown) event()          {}
func (Closed) event()           {}

// MessagePayload is the body of an outgoing sendMessage.
type MessagePayload struct {
	Body string `json:"body"`
}

// TypingPayload is the body of an outgoing setTypingPresence.
type TypingPayload struct {
	Typing bool `json:"typing"`
}

type sessionRequest struct {
	SessionID    string `json:"sessionId,omitempty"`
	UserNickname string `json:"userNickname"`
	UserIcon     string `json:"userIcon"`
}

type createResponse struct {
	SessionID string `json:"sessionId"`
}

type joinResponse struct {
	Messages []wireMessage `json:"messages"`
}

// wireMessage is a chat message as the server serializes it.
type wireMessage struct {
	IsSystemMessage bool   `json:"isSystemMessage"`
	UserIcon        string `json:"userIcon,omitempty"`
	UserNickname    string `json:"userNickname,omitempty"`
	Body            string `json:"body"`
	PermID          string `json:"permId,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

type wireUser struct {
	SocketConnectionID string          `json:"socketConnectionId"`
	UserSettings       domain.Identity `json:"userSettings"`
}

type wireTyping struct {
	AnyoneTyping bool     `json:"anyoneTyping"`
	UsersTyping  []string `json:"usersTyping"`
}

type wireUserID struct {
	UserID string `json:"userId"`
}

// chatEvent converts a wire message into a log entry. System messages read
// as "<nickname> <body>", e.g. "Amy joined the party".
func (w wireMessage) chatEvent() domain.ChatEvent {
	if w.IsSystemMessage {
		return domain.SystemMessage{Text: strings.TrimSpace(w.UserNickname + " " + w.Body)}
	}
	var ts time.Time
	if w.Timestamp > 0 {
		ts = time.UnixMilli(w.Timestamp)
	}
	return domain.UserMessage{
		PermID:    w.PermID,
		Identity:  domain.Identity{Nickname: w.UserNickname, Icon: w.UserIcon},
		Body:      w.Body,
		Timestamp: ts,
	}
}

// decodeEvent turns a pushed frame into an Event. Unrecognized types decode to Unknown.
func decodeEvent(env envelope) (Event, error) {
	switch env.Type {
	case TypeUserID:
		var d wireUserID
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return IdentityAssigned{ConnectionID: d.UserID}, nil

	case TypeSendMessage:
		var d wireMessage
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return MessageReceived{Message: d.chatEvent()}, nil

	case TypeUserList:
		var users []wireUser
		if err := json.Unmarshal(env.Data, &users); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		participants := make([]domain.Participant, 0, len(users))
		for _, u := range users {
			participants = append(participants, domain.Participant{
				ConnectionID: u.SocketConnectionID,
				Identity:     u.UserSettings,
			})
		}
		return RosterChanged{Participants: participants}, nil

	case TypeTyping:
		var d wireTyping
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return TypingChanged{AnyoneTyping: d.AnyoneTyping, UsersTyping: d.UsersTyping}, nil

	default:
		return Unknown{Type: env.Type, Data: env.Data}, nil
	}
}
