// Package chat holds the room state the controller derives from transport
// events: who is connected, who is typing, and the message log.
package chat

import "github.com/naveenspark/telechat/pkg/domain"

// Roster is the set of connected participants. Each Replace is authoritative.
type Roster struct {
	order []string
	byID  map[string]domain.Participant
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]domain.Participant)}
}

// Replace swaps in a new snapshot. Nothing from the previous snapshot survives.
func (r *Roster) Replace(participants []domain.Participant) {
	r.order = make([]string, 0, len(participants))
	r.byID = make(map[string]domain.Participant, len(participants))
	for _, p := range participants {
		if _, dup := r.byID[p.ConnectionID]; !dup {
			r.order = append(r.order, p.ConnectionID)
		}
		r.byID[p.ConnectionID] = p
	}
}

// Clear empties the roster.
func (r *Roster) Clear() {
	r.Replace(nil)
}

// Len returns the number of connected participants.
func (r *Roster) Len() int {
	return len(r.order)
}

// Has reports whether connectionID is in the current snapshot.
func (r *Roster) Has(connectionID string) bool {
	_, ok := r.byID[connectionID]
	return ok
}

// HasLookalike reports whether a connection other than self presents as id.
func (r *Roster) HasLookalike(id domain.Identity, self string) bool {
	for _, cid := range r.order {
		if cid != self && r.byID[cid].Identity.Same(id) {
			return true
		}
	}
	return false
}

// Participants returns the snapshot in broadcast order.
func (r *Roster) Participants() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// LookupNicknames returns the nicknames of ids that are in the roster, in
// roster order. Unknown ids are skipped; the roster can lag a typing event.
func (r *Roster) LookupNicknames(ids map[string]struct{}) []string {
	var names []string
	for _, id := range r.order {
		if _, ok := ids[id]; ok {
			names = append(names, r.byID[id].Identity.Nickname)
		}
	}
	return names
}
