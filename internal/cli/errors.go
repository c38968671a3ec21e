package cli

import "fmt"

// UsageError reports a malformed command line. Nothing has been done when
// it is returned.
type UsageError struct {
	Command string
	Message string
	Err     error
}

func (e *UsageError) Error() string {
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Hint points at the help of the command that was misused.
func (e *UsageError) Hint() string {
	return fmt.Sprintf("Run '%s --help' for usage.", e.Command)
}

func usageErrorf(cmd string, format string, args ...any) *UsageError {
	return &UsageError{Command: cmd, Message: fmt.Sprintf(format, args...)}
}

func usageError(cmd string, err error) *UsageError {
	return &UsageError{Command: cmd, Message: err.Error(), Err: err}
}
