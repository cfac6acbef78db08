package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/naveenspark/telechat/pkg/domain"
)

// Storage slots.
const (
	sessionKey = "chatSession"
	staleKey   = "staleSession"
)

// record is the serialized layout of the session slot.
type record struct {
	RoomID       string          `json:"roomId"`
	UserSettings domain.Identity `json:"userSettings"`
}

// Store remembers the current room and identity across restarts.
type Store struct {
	kv KV
}

// NewStore wraps kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Save overwrites the session slot. Room ids that are not exactly
// domain.RoomCodeLen characters are never written, so a partially typed
// code does not clobber the last complete one. It reports whether a write happened.
func (s *Store) Save(roomID string, id domain.Identity) (bool, error) {
	if utf8.RuneCountInString(roomID) != domain.RoomCodeLen {
		return false, nil
	}
	raw, err := json.Marshal(record{RoomID: roomID, UserSettings: id})
	if err != nil {
		return false, fmt.Errorf("session.Save: %w", err)
	}
	if err := s.kv.Set(sessionKey, string(raw)); err != nil {
		return false, fmt.Errorf("session.Save: %w", err)
	}
	return true, nil
}

// Load returns the saved session, if any, with its stale flag filled in.
func (s *Store) Load() (domain.RoomSession, bool, error) {
	raw, ok, err := s.kv.Get(sessionKey)
	if err != nil {
		return domain.RoomSession{}, false, fmt.Errorf("session.Load: %w", err)
	}
	if !ok || raw == "" {
		return domain.RoomSession{}, false, nil
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.RoomSession{}, false, fmt.Errorf("session.Load: decode: %w", err)
	}
	stale, err := s.Stale()
	if err != nil {
		return domain.RoomSession{}, false, err
	}
	return domain.RoomSession{RoomID: rec.RoomID, Identity: rec.UserSettings, Stale: stale}, true, nil
}

// MarkStale sets the stale flag. A stale session is not resumed at startup.
func (s *Store) MarkStale(stale bool) error {
	if err := s.kv.Set(staleKey, strconv.FormatBool(stale)); err != nil {
		return fmt.Errorf("session.MarkStale: %w", err)
	}
	return nil
}

// Stale reads the stale flag; an unset flag is false.
func (s *Store) Stale() (bool, error) {
	raw, ok, err := s.kv.Get(staleKey)
	if err != nil {
		return false, fmt.Errorf("session.Stale: %w", err)
	}
	if !ok {
		return false, nil
	}
	stale, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("session.Stale: decode %q: %w", raw, err)
	}
	return stale, nil
}

// DefaultPath returns a session file scoped to the launching shell, so a
// relaunch from the same terminal resumes and a new terminal starts fresh.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "telechat", "session-"+strconv.Itoa(os.Getppid())+".json")
}
