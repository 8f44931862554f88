package undo

// cpKind discriminates the two shapes of logged Checkpoint actions.
type cpKind int

const (
	// cpApply is only used when the wrapped Timeline is concretely a
	// *Record[T]: it captures enough of the record's private state to
	// reverse the apply exactly, including an annul, a detached redo
	// tail or an eviction, rather than just walking the cursor back. A
	// merged apply is reversed by undoing the whole absorbing entry,
	// since Merge mutated that command in place; this also undoes what
	// the entry held before the checkpoint.
	cpApply cpKind = iota
	// cpGoTo is the generic path, used for Undo/Redo/GoTo against any
	// Timeline, and for Apply against anything that isn't a bare
	// Record: it captures the (branch, current) coordinate beforehand
	// and reverses by calling GoTo back to it.
	cpGoTo
)

type cpAction[T any] struct {
	kind cpKind

	// cpApply fields.
	priorCurrent int
	priorLen     int
	priorSaved   *int
	merged       bool
	annulled     bool
	poppedEntry  entry[T]
	detachedTail []entry[T]

	// cpGoTo fields.
	priorAt At
	// historyDiverged and the fields below are only set when cpGoTo logs
	// an Apply against a *History[T] that detached a redo tail into a new
	// branch: plain GoTo restores entries/current exactly by rotating
	// back to priorAt, but it leaves that transient branch parked under
	// the tree's root rather than erasing it, since GoTo has no way to
	// know this hop is a full undo of an Apply rather than an ordinary
	// branch switch. These fields let Cancel clean that branch away and
	// restore the exact pre-Apply registry.
	historyDiverged   bool
	priorActiveParent At
	priorNext         int
}

// Checkpoint is a scoped rollback wrapper over any Timeline: every
// operation performed while the checkpoint is open is logged, and
// Cancel undoes them in reverse order, stopping at the first failure.
// Commit simply forgets the log, keeping every change.
//
// Checkpoint wrapping a *Record[T] directly reverses Apply via the
// record's own bookkeeping, exactly undoing what happened except after
// a merge (see cpApply); wrapping a *History[T] falls back to recording the
// coordinate beforehand and calling GoTo back to it, plus a little extra
// bookkeeping of its own to erase any branch that Apply created along
// the way (see cpAction.historyDiverged); Checkpoint and Queue fall back
// to the same coordinate-based reversal with no extra bookkeeping, since
// they have no operation-specific state beyond cursor position.
type Checkpoint[T any] struct {
	inner   Timeline[T]
	record  *Record[T]
	history *History[T]
	actions []cpAction[T]
}

// NewCheckpoint wraps inner in a Checkpoint.
func NewCheckpoint[T any](inner Timeline[T]) *Checkpoint[T] {
	cp := &Checkpoint[T]{inner: inner}
	if r, ok := inner.(*Record[T]); ok {
		cp.record = r
	}
	if h, ok := inner.(*History[T]); ok {
		cp.history = h
	}
	return cp
}

func copySavedPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Apply applies command and logs how to reverse it.
func (cp *Checkpoint[T]) Apply(command Command[T]) error {
	if cp.record != nil {
		var popped entry[T]
		if cp.record.current == len(cp.record.entries) && cp.record.current > 0 {
			if _, ok := cp.record.entries[cp.record.current-1].command.(Merger[T]); ok {
				popped = cp.record.entries[cp.record.current-1]
			}
		}
		priorLen := len(cp.record.entries)
		priorCurrent := cp.record.current
		priorSaved := copySavedPtr(cp.record.saved)

		merged, tail, err := cp.record.apply(command)
		if err != nil {
			return err
		}
		annulled := merged && len(cp.record.entries) < priorLen
		cp.actions = append(cp.actions, cpAction[T]{
			kind: cpApply, priorCurrent: priorCurrent, priorLen: priorLen, priorSaved: priorSaved,
			merged: merged, annulled: annulled, poppedEntry: popped, detachedTail: tail,
		})
		return nil
	}

	if cp.history != nil {
		priorAt := At{Branch: cp.history.Branch(), Current: cp.history.Current()}
		priorActiveParent := cp.history.activeParent
		priorNext := cp.history.next
		if err := cp.history.Apply(command); err != nil {
			return err
		}
		cp.actions = append(cp.actions, cpAction[T]{
			kind: cpGoTo, priorAt: priorAt,
			historyDiverged:   cp.history.next != priorNext,
			priorActiveParent: priorActiveParent,
			priorNext:         priorNext,
		})
		return nil
	}

	priorAt := At{Branch: cp.inner.Branch(), Current: cp.inner.Current()}
	if err := cp.inner.Apply(command); err != nil {
		return err
	}
	cp.actions = append(cp.actions, cpAction[T]{kind: cpGoTo, priorAt: priorAt})
	return nil
}

// Undo undoes through the wrapped Timeline and logs how to reverse it.
func (cp *Checkpoint[T]) Undo() (bool, error) {
	priorAt := At{Branch: cp.inner.Branch(), Current: cp.inner.Current()}
	ok, err := cp.inner.Undo()
	if err != nil || !ok {
		return ok, err
	}
	cp.actions = append(cp.actions, cpAction[T]{kind: cpGoTo, priorAt: priorAt})
	return true, nil
}

// Redo redoes through the wrapped Timeline and logs how to reverse it.
func (cp *Checkpoint[T]) Redo() (bool, error) {
	priorAt := At{Branch: cp.inner.Branch(), Current: cp.inner.Current()}
	ok, err := cp.inner.Redo()
	if err != nil || !ok {
		return ok, err
	}
	cp.actions = append(cp.actions, cpAction[T]{kind: cpGoTo, priorAt: priorAt})
	return true, nil
}

// GoTo navigates through the wrapped Timeline and logs how to reverse it.
func (cp *Checkpoint[T]) GoTo(branch, current int) error {
	priorAt := At{Branch: cp.inner.Branch(), Current: cp.inner.Current()}
	if err := cp.inner.GoTo(branch, current); err != nil {
		return err
	}
	cp.actions = append(cp.actions, cpAction[T]{kind: cpGoTo, priorAt: priorAt})
	return nil
}

// Cancel reverses every logged action, most recent first, stopping at
// the first error and leaving the remaining (older) actions unperformed
// and still logged.
func (cp *Checkpoint[T]) Cancel() error {
	for i := len(cp.actions) - 1; i >= 0; i-- {
		a := cp.actions[i]
		var err error
		switch a.kind {
		case cpApply:
			err = cp.cancelApply(a)
		case cpGoTo:
			err = cp.inner.GoTo(a.priorAt.Branch, a.priorAt.Current)
			if err == nil && a.historyDiverged {
				// Apply minted a branch to hold the continuation being
				// undone; GoTo's rotation faithfully restores entries and
				// current but, having no notion that this hop reverses an
				// Apply rather than just switching branches, leaves that
				// branch parked under its own id instead of erasing it.
				// Clean up what only Apply's divergence could have created.
				delete(cp.history.branches, a.priorNext)
				delete(cp.history.historySaved, a.priorNext)
				cp.history.activeParent = a.priorActiveParent
				cp.history.next = a.priorNext
			}
		}
		if err != nil {
			cp.actions = cp.actions[:i+1]
			return err
		}
	}
	cp.actions = nil
	return nil
}

func (cp *Checkpoint[T]) cancelApply(a cpAction[T]) error {
	switch {
	case a.annulled:
		// the annul reversed the popped entry's effect on the target;
		// restoring it here means re-applying, not undoing.
		if err := a.poppedEntry.command.Apply(&cp.record.target); err != nil {
			return err
		}
		cp.record.entries = append(cp.record.entries, a.poppedEntry)
		cp.record.current = a.priorCurrent
	case a.merged:
		if _, err := cp.record.Undo(); err != nil {
			return err
		}
	default:
		if _, err := cp.record.Undo(); err != nil {
			return err
		}
		cp.record.entries = cp.record.entries[:a.priorCurrent]
		cp.record.entries = append(cp.record.entries, a.detachedTail...)
	}
	cp.record.saved = a.priorSaved
	return nil
}

// Commit forgets the action log, keeping every change made so far.
func (cp *Checkpoint[T]) Commit() {
	cp.actions = nil
}

// Pending reports how many actions are logged and would be reversed by
// Cancel.
func (cp *Checkpoint[T]) Pending() int { return len(cp.actions) }

func (cp *Checkpoint[T]) Branch() int      { return cp.inner.Branch() }
func (cp *Checkpoint[T]) Current() int     { return cp.inner.Current() }
func (cp *Checkpoint[T]) Len() int         { return cp.inner.Len() }
func (cp *Checkpoint[T]) CanUndo() bool    { return cp.inner.CanUndo() }
func (cp *Checkpoint[T]) CanRedo() bool    { return cp.inner.CanRedo() }
func (cp *Checkpoint[T]) IsSaved() bool    { return cp.inner.IsSaved() }
func (cp *Checkpoint[T]) Target() *T       { return cp.inner.Target() }
func (cp *Checkpoint[T]) TargetMut() *T    { return cp.inner.TargetMut() }

// Checkpoint returns a new Checkpoint wrapping the same root Timeline
// cp wraps, not cp itself: nested checkpoints are siblings over one
// root, so canceling an inner checkpoint never re-triggers an outer
// one's bookkeeping.
func (cp *Checkpoint[T]) Checkpoint() *Checkpoint[T] { return NewCheckpoint[T](cp.inner) }

// Queue returns a Queue wrapping the same root Timeline cp wraps.
func (cp *Checkpoint[T]) Queue() *Queue[T] { return NewQueue[T](cp.inner) }
