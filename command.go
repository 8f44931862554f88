// Package undo implements undo/redo over arbitrary client-owned state.
//
// A client supplies a target value and a family of reversible Commands.
// Record gives linear undo/redo; History layers a branching tree on top
// of a Record. Checkpoint and Queue are transactional wrappers that
// compose over either one.
package undo

import "time"

// Command is a reversible mutation of a target of type T. Apply and Undo
// run on &mut self conceptually (commands may stash rollback data during
// Apply), hence the pointer receiver pattern on the target argument only
// — the command value itself is free to carry mutable state.
//
// On Apply failure the target must be left unchanged. On Undo failure the
// target is left as Undo itself leaves it; the caller surfaces the error
// without further rollback.
type Command[T any] interface {
	Apply(target *T) error
	Undo(target *T) error
}

// MergeResult is the outcome of folding a newly applied command into its
// immediate predecessor.
type MergeResult int

const (
	// MergeNo means the two commands remain distinct entries.
	MergeNo MergeResult = iota
	// MergeYes means self has absorbed other; self's Undo must now
	// reverse the combined effect.
	MergeYes
	// MergeAnnul means the two commands cancel out; both are discarded.
	MergeAnnul
)

// Merger is an optional capability: a Command that knows how to fold a
// following command (of any concrete type) into itself. Record checks
// for this via a type assertion at the apply boundary (current == len).
// other's Apply has already run by the time Merge is called, so other's
// own post-apply state (not just its pre-apply fields) is available to
// fold in.
type Merger[T any] interface {
	Command[T]
	Merge(other Command[T]) MergeResult
}

// Timestamper is an optional capability letting a command supply its own
// apply-time clock reading instead of Record capturing time.Now().
type Timestamper interface {
	Timestamp() time.Time
}
