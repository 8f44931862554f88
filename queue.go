package undo

// queueKind discriminates a Queue's deferred actions.
type queueKind int

const (
	queueApply queueKind = iota
	queueUndo
	queueRedo
	queueGoTo
)

type queueAction[T any] struct {
	kind            queueKind
	command         Command[T]
	branch, current int
}

// Queue is an intent-only wrapper over any Timeline: Apply, Undo, Redo
// and GoTo only record what the caller asked for, taking no effect
// against the wrapped Timeline until Commit runs them in enqueue order.
// Cancel discards the queue untouched.
type Queue[T any] struct {
	inner   Timeline[T]
	actions []queueAction[T]
}

// NewQueue wraps inner in a Queue.
func NewQueue[T any](inner Timeline[T]) *Queue[T] {
	return &Queue[T]{inner: inner}
}

// Apply queues command; it is not run against the target until Commit.
func (q *Queue[T]) Apply(command Command[T]) error {
	q.actions = append(q.actions, queueAction[T]{kind: queueApply, command: command})
	return nil
}

// Undo queues an undo.
func (q *Queue[T]) Undo() (bool, error) {
	q.actions = append(q.actions, queueAction[T]{kind: queueUndo})
	return true, nil
}

// Redo queues a redo.
func (q *Queue[T]) Redo() (bool, error) {
	q.actions = append(q.actions, queueAction[T]{kind: queueRedo})
	return true, nil
}

// GoTo queues a navigation to (branch, current).
func (q *Queue[T]) GoTo(branch, current int) error {
	q.actions = append(q.actions, queueAction[T]{kind: queueGoTo, branch: branch, current: current})
	return nil
}

// Commit runs every queued action against the wrapped Timeline, in
// enqueue order, stopping at the first error. Actions that already ran
// are forgotten; any that didn't run remain queued.
func (q *Queue[T]) Commit() error {
	for i, a := range q.actions {
		var err error
		switch a.kind {
		case queueApply:
			err = q.inner.Apply(a.command)
		case queueUndo:
			_, err = q.inner.Undo()
		case queueRedo:
			_, err = q.inner.Redo()
		case queueGoTo:
			err = q.inner.GoTo(a.branch, a.current)
		}
		if err != nil {
			q.actions = q.actions[i+1:]
			return err
		}
	}
	q.actions = nil
	return nil
}

// Cancel discards every queued action without running any of them.
func (q *Queue[T]) Cancel() {
	q.actions = nil
}

// Pending reports how many actions are queued.
func (q *Queue[T]) Pending() int { return len(q.actions) }

// Branch, Current, Len, CanUndo, CanRedo and IsSaved report the wrapped
// Timeline's current state, unaffected by anything still queued.
func (q *Queue[T]) Branch() int   { return q.inner.Branch() }
func (q *Queue[T]) Current() int  { return q.inner.Current() }
func (q *Queue[T]) Len() int      { return q.inner.Len() }
func (q *Queue[T]) CanUndo() bool { return q.inner.CanUndo() }
func (q *Queue[T]) CanRedo() bool { return q.inner.CanRedo() }
func (q *Queue[T]) IsSaved() bool { return q.inner.IsSaved() }
func (q *Queue[T]) Target() *T    { return q.inner.Target() }
func (q *Queue[T]) TargetMut() *T { return q.inner.TargetMut() }

// Checkpoint returns a Checkpoint wrapping the same root Timeline q
// wraps, not q itself: nested wrappers are siblings over one root.
func (q *Queue[T]) Checkpoint() *Checkpoint[T] { return NewCheckpoint[T](q.inner) }

// Queue returns a new Queue wrapping the same root Timeline q wraps.
func (q *Queue[T]) Queue() *Queue[T] { return NewQueue[T](q.inner) }
