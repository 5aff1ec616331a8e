package symbols

import (
	"errors"
	"fmt"
)

// ErrInvalidHandle is matched by every HandleError.
var ErrInvalidHandle = errors.New("invalid handle")

// HandleError is the panic value raised when a destroyed or foreign handle
// reaches the table. It is a caller bug, not a recoverable condition.
type HandleError struct {
	What      string // "scope" or "symbol"
	ID        uint32
	Destroyed bool
}

func (e *HandleError) Error() string {
	if e.Destroyed {
		return fmt.Sprintf("use of destroyed %s #%d", e.What, e.ID)
	}
	return fmt.Sprintf("unknown %s #%d", e.What, e.ID)
}

func (e *HandleError) Unwrap() error { return ErrInvalidHandle }
