package progress

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks stored progress that failed validation.
var ErrCorrupt = errors.New("corrupt progress data")

// RecoverableError describes why stored progress was discarded in favour of defaults.
type RecoverableError struct {
	Reason string
	Err    error
}

func (e *RecoverableError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

func corrupt(reason string) *RecoverableError {
	return &RecoverableError{Reason: reason, Err: ErrCorrupt}
}
