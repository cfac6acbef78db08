package domain

import (
	"errors"
	"regexp"
)

// RoomCodeLen is the length of every room id handed out by the transport.
const RoomCodeLen = 16

// roomCodeRe matches a complete room code, case-insensitively.
var roomCodeRe = regexp.MustCompile(`(?i)^[a-z0-9]{16}$`)

// ErrInvalidRoomCode is returned for codes that are not 16 alphanumerics.
var ErrInvalidRoomCode = errors.New("room code must be 16 letters or digits")

// ValidateRoomCode checks a user-entered room code before a join.
func ValidateRoomCode(code string) error {
	if !roomCodeRe.MatchString(code) {
		return ErrInvalidRoomCode
	}
	return nil
}

// Participant is one connected socket in a room.
type Participant struct {
	ConnectionID string
	Identity     Identity
}
