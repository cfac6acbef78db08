package room

import (
	"errors"
	"strings"

	"github.com/naveenspark/telechat/pkg/domain"
)

// ErrNicknameRequired blocks create and join until a nickname is entered.
var ErrNicknameRequired = errors.New("you must enter a nickname to join a room")

// ValidationError is user input that blocks an action. Nothing changes state.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func validateNickname(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return &ValidationError{Field: "nickname", Err: ErrNicknameRequired}
	}
	return nil
}

func validateRoomCode(code string) error {
	if err := domain.ValidateRoomCode(code); err != nil {
		return &ValidationError{Field: "room code", Err: err}
	}
	return nil
}

// noticeText renders err as a sentence for the notice banner.
func noticeText(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
