package client

import (
	"errors"
	"fmt"
)

// ErrClosed is returned for requests made after the connection closed or was torn down.
var ErrClosed = errors.New("connection closed")

// OperationError represents a request the room server answered with an error.
type OperationError struct {
	Op      string
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// IsOperation returns true if err (or any wrapped error) is an OperationError for op.
// An empty op matches any operation.
func IsOperation(err error, op string) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return op == "" || opErr.Op == op
	}
	return false
}
