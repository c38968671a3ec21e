package generator

import (
	"errors"
	"fmt"
)

// ErrModuleExists is returned when the target module directory is already
// present. Nothing is written in that case.
var ErrModuleExists = errors.New("module already exists")

// WriteError reports a failed artifact write. The staging directory has
// been removed by the time it is returned.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// SpliceError reports that the module was written but could not be
// registered in the router file.
type SpliceError struct {
	RouterPath string
	Err        error
}

func (e *SpliceError) Error() string {
	return fmt.Sprintf("module written but not routed: %v", e.Err)
}

func (e *SpliceError) Unwrap() error {
	return e.Err
}
