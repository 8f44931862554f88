package undo

// Timeline is the capability set shared by Record, History, Checkpoint
// and Queue, so wrappers nest uniformly: a Checkpoint or Queue can wrap
// any of the four. A bare Record only ever owns branch id 0, and its
// GoTo panics if asked to navigate to any other branch; History gives
// branch ids real meaning.
type Timeline[T any] interface {
	// Apply runs command.Apply against the target and records it.
	Apply(command Command[T]) error
	// Undo undoes the most recently applied command. ok is false if
	// there was nothing to undo; err is non-nil only on command failure.
	Undo() (ok bool, err error)
	// Redo re-applies the most recently undone command.
	Redo() (ok bool, err error)
	// GoTo moves to the given (branch, current) coordinate, undoing or
	// redoing as needed. A Record-backed timeline requires branch == 0.
	GoTo(branch, current int) error

	Branch() int
	Current() int
	Len() int
	CanUndo() bool
	CanRedo() bool
	IsSaved() bool

	Target() *T
	TargetMut() *T
}
