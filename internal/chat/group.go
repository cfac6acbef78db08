package chat

import "github.com/naveenspark/telechat/pkg/domain"

// Viewer is the local user a log is rendered for.
type Viewer struct {
	Identity domain.Identity
	// SelfID is the id from the server's userId event, if known.
	SelfID string
	// Lookalike is set while another connection in the room shares Identity.
	Lookalike bool
}

// Block is one renderable unit: a system line, or a run of consecutive
// messages from one sender under a single header.
type Block struct {
	System   bool
	Text     string
	Sender   domain.Identity
	Mine     bool
	Messages []domain.UserMessage
}

// Group splits a log into blocks. A message joins the previous block only
// when the entry right before it is a user message with the same icon and
// nickname; system messages always stand alone and break any run.
func Group(events []domain.ChatEvent, v Viewer) []Block {
	var blocks []Block
	var prev *domain.UserMessage
	for _, ev := range events {
		switch e := ev.(type) {
		case domain.SystemMessage:
			blocks = append(blocks, Block{System: true, Text: e.Text})
			prev = nil
		case domain.UserMessage:
			if prev != nil && prev.Identity.Same(e.Identity) {
				last := &blocks[len(blocks)-1]
				last.Messages = append(last.Messages, e)
			} else {
				blocks = append(blocks, Block{
					Sender:   e.Identity,
					Mine:     v.IsMine(e),
					Messages: []domain.UserMessage{e},
				})
			}
			m := e
			prev = &m
		default:
			prev = nil
		}
	}
	return blocks
}

// IsMine reports whether msg was sent by the viewer. Identity equality is
// the rule, so messages from before a reconnect still count. Only while a
// lookalike is in the room does the sender id decide, and then it must
// equal SelfID.
func (v Viewer) IsMine(msg domain.UserMessage) bool {
	if !msg.Identity.Same(v.Identity) {
		return false
	}
	if !v.Lookalike || v.SelfID == "" || msg.PermID == "" {
		return true
	}
	return msg.PermID == v.SelfID
}
