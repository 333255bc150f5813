package chat

import "github.com/RichardoC/padchat/internal/db"

// ErrNotFound is returned when a conversation id does not exist.
var ErrNotFound = db.ErrNotFound

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
