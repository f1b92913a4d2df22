package cmd

import (
	"errors"
	"fmt"
)

// SilentExitError ends the process with Code without printing anything.
// Commands return it when output already explains the failure.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewSilentExit returns an error that makes Execute exit with code.
func NewSilentExit(code int) error {
	return &SilentExitError{Code: code}
}

// IsSilentExit reports whether err is a silent exit and its code.
func IsSilentExit(err error) (int, bool) {
	var se *SilentExitError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
