package engine

import (
	"errors"
	"fmt"
)

// Status is the outcome of a stack or command operation.
type Status int

const (
	Success Status = iota
	InvalidValue
	InvalidCommand
	OutOfMemory
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case InvalidValue:
		return "invalid value"
	case InvalidCommand:
		return "invalid command"
	case OutOfMemory:
		return "out of memory"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) Error() string { return s.String() }

var (
	// ErrOutOfCapacity reports a full layer or track stack.
	ErrOutOfCapacity = fmt.Errorf("stack capacity exceeded: %w", OutOfMemory)
	// ErrOutOfMemory reports a refused pixel buffer allocation.
	ErrOutOfMemory = fmt.Errorf("pixel buffer allocation failed: %w", OutOfMemory)
)

// StatusOf maps an error returned by the engine to its status code.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return InvalidCommand
}

// CmdError identifies the token that stopped a command line.
type CmdError struct {
	Token string
	Index int
	Err   error
}

func (c *CmdError) Error() string {
	return fmt.Sprintf("token %d %q: %v", c.Index, c.Token, c.Err)
}

func (c *CmdError) Unwrap() error { return c.Err }
