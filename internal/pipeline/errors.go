package pipeline

import (
	"errors"
	"fmt"
)

// ErrPass is matched by every *PassError.
var ErrPass = errors.New("pass failed")

// PassError reports the pass that stopped a run.
type PassError struct {
	Name  string
	Index int // 1-based position in the registry
	Err   error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPass.
func (e *PassError) Is(target error) bool {
	return target == ErrPass
}
