package undo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for the optional-navigation entry points. History.GoTo
// returns them unwrapped, and Checkpoint/Queue pass them through as is.
var (
	// ErrUnknownBranch is returned by History.GoTo when the requested
	// branch id was never allocated or has since been pruned.
	ErrUnknownBranch = errors.New("undo: unknown branch")
)

// withStack attaches a call-site stack to a command error without
// altering its message, so it is surfaced to the caller unchanged in
// substance (per the command contract) while still debuggable.
func withStack(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(err)
}

// invariant panics with a formatted message when cond is false. It marks
// states the data model guarantees can never occur; reaching one means a
// bug in this package, not a client error.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("undo: invariant violated: "+format, args...))
	}
}

// precondition panics with a formatted message when cond is false. It
// guards domain preconditions a caller violated (e.g. SetLimit(0)),
// treated as programmer error per the error handling design.
func precondition(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("undo: "+format, args...))
	}
}
