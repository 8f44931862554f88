package undo

import (
	"math"
	"time"

	"github.com/holtfell/undo/internal/xlog"
)

// Record is a linear undo/redo timeline over a target of type T: an
// ordered sequence of entries, a cursor splitting "applied" from
// "undone, ready to redo", an optional capacity limit, an optional saved
// marker, and a single observer slot.
//
// Record is not safe for concurrent use; it is mutably owned by one
// caller at a time, per the single-threaded cooperative model the whole
// package follows.
type Record[T any] struct {
	target   T
	entries  []entry[T]
	current  int
	limit    int
	saved    *int
	observer Observer
	timed    bool
	metrics  *metricsSet
}

// RecordOption configures a Record at construction time.
type RecordOption[T any] func(*Record[T])

// WithCapacity preallocates room for at least n entries without imposing
// a limit.
func WithCapacity[T any](n int) RecordOption[T] {
	return func(r *Record[T]) {
		r.entries = make([]entry[T], 0, n)
	}
}

// WithLimit caps the number of entries a Record retains; Apply evicts
// the oldest entry once len exceeds limit. Panics if n < 1.
func WithLimit[T any](n int) RecordOption[T] {
	return func(r *Record[T]) {
		precondition(n >= 1, "limit must be >= 1, got %d", n)
		r.limit = n
	}
}

// WithInitialSaved marks the freshly constructed, empty Record as
// already saved at position 0 when saved is true.
func WithInitialSaved[T any](saved bool) RecordOption[T] {
	return func(r *Record[T]) {
		if saved {
			zero := 0
			r.saved = &zero
		}
	}
}

// WithObserver connects an Observer at construction time.
func WithObserver[T any](o Observer) RecordOption[T] {
	return func(r *Record[T]) { r.observer = o }
}

// WithTimestamps enables per-entry timestamp capture.
func WithTimestamps[T any](enabled bool) RecordOption[T] {
	return func(r *Record[T]) { r.timed = enabled }
}

// WithMetrics registers prometheus counters for this Record's
// operations, labeled by instance.
func WithMetrics[T any](instance string) RecordOption[T] {
	return func(r *Record[T]) { r.metrics = newMetricsSet(instance) }
}

// NewRecord constructs a Record over target with the given options.
func NewRecord[T any](target T, opts ...RecordOption[T]) *Record[T] {
	r := &Record[T]{target: target, limit: math.MaxInt}
	for _, o := range opts {
		o(r)
	}
	return r
}

type recordState struct {
	canUndo, canRedo, isSaved bool
}

func (r *Record[T]) state() recordState {
	return recordState{canUndo: r.current > 0, canRedo: r.current < len(r.entries), isSaved: r.IsSaved()}
}

func (r *Record[T]) emitDiff(before recordState) {
	after := r.state()
	if before.canUndo != after.canUndo {
		r.emit(UndoSignal{Available: after.canUndo})
	}
	if before.canRedo != after.canRedo {
		r.emit(RedoSignal{Available: after.canRedo})
	}
	if before.isSaved != after.isSaved {
		r.emit(SavedSignal{Saved: after.isSaved})
	}
}

func (r *Record[T]) emit(s Signal) {
	if r.observer != nil {
		r.observer(s)
	}
	if r.metrics != nil {
		if sv, ok := s.(SavedSignal); ok {
			r.metrics.saved(sv.Saved)
		}
	}
}

// Apply wraps command in an entry and applies it, per the merge and
// eviction rules implemented in apply below. It discards the detached
// redo-tail suffix (if any); Checkpoint calls the unexported apply to
// keep it, while History keeps its own entries and parks the suffix as
// a branch itself.
func (r *Record[T]) Apply(command Command[T]) error {
	_, _, err := r.apply(command)
	return err
}

// apply is Apply's internal form, additionally reporting whether the
// command was merged into its predecessor and the detached redo-tail
// suffix truncated by a normal (non-merge) apply, if any.
func (r *Record[T]) apply(command Command[T]) (merged bool, tail []entry[T], err error) {
	before := r.state()

	// command always runs against the target first, merge candidate or
	// not: Merger.Merge has no target access, so a command like a
	// backspace run that needs to know what it actually removed (not
	// just its pre-apply Pos/Length) can only report that through its
	// own already-applied state by the time Merge inspects it.
	if err := command.Apply(&r.target); err != nil {
		return false, nil, withStack(err)
	}

	if r.current == len(r.entries) && r.current > 0 {
		if m, ok := r.entries[r.current-1].command.(Merger[T]); ok {
			switch m.Merge(command) {
			case MergeYes:
				// self has absorbed command; command's effect already
				// landed above, so there is nothing left to do.
				r.emitDiff(before)
				r.metrics.op("apply_merge")
				return true, nil, nil
			case MergeAnnul:
				// both commands cancel out: unwind command's just-applied
				// effect, then the absorbed entry's, in that order.
				if err := command.Undo(&r.target); err != nil {
					return false, nil, withStack(err)
				}
				if err := r.entries[r.current-1].command.Undo(&r.target); err != nil {
					return false, nil, withStack(err)
				}
				r.entries = r.entries[:len(r.entries)-1]
				r.current = len(r.entries)
				r.emitDiff(before)
				r.metrics.op("apply_annul")
				return true, nil, nil
			case MergeNo:
				// fall through to a normal apply.
			}
		}
	}

	preApplyCurrent := r.current
	// Snapshot the saved marker as it stood at entry time, before eviction
	// below has a chance to shift it: the "cleared if it sat past current"
	// rule is defined against that pre-apply state, not whatever r.saved
	// happens to hold after front-eviction has renumbered it.
	hadSaved := r.saved != nil
	var entryTimeSavedValue int
	if hadSaved {
		entryTimeSavedValue = *r.saved
	}

	if r.current < len(r.entries) {
		tail = append([]entry[T]{}, r.entries[r.current:]...)
		r.entries = r.entries[:r.current]
	}
	r.entries = append(r.entries, newEntry(command, r.timed))
	r.current++

	if len(r.entries) > r.limit {
		r.entries = r.entries[1:]
		r.current--
		if r.saved != nil {
			*r.saved--
			if *r.saved < 0 {
				r.saved = nil
			}
		}
		r.metrics.evicted()
	}

	if hadSaved && entryTimeSavedValue > preApplyCurrent {
		r.saved = nil
	}

	r.emitDiff(before)
	r.metrics.op("apply")
	xlog.With(r.logFields()).Trace("record: applied")
	return false, tail, nil
}

// Undo undoes the most recently applied command. ok is false (with a nil
// error) if there is nothing to undo.
func (r *Record[T]) Undo() (bool, error) {
	if r.current == 0 {
		return false, nil
	}
	before := r.state()
	e := r.entries[r.current-1]
	if err := e.command.Undo(&r.target); err != nil {
		return false, withStack(err)
	}
	r.current--
	r.emitDiff(before)
	r.metrics.op("undo")
	xlog.With(r.logFields()).Trace("record: undone")
	return true, nil
}

// Redo re-applies the most recently undone command.
func (r *Record[T]) Redo() (bool, error) {
	if r.current == len(r.entries) {
		return false, nil
	}
	before := r.state()
	e := r.entries[r.current]
	if err := e.command.Apply(&r.target); err != nil {
		return false, withStack(err)
	}
	r.current++
	r.emitDiff(before)
	r.metrics.op("redo")
	xlog.With(r.logFields()).Trace("record: redone")
	return true, nil
}

// GoTo moves the cursor to current, undoing or redoing as needed. It
// stops at the first command error, leaving the record at the furthest
// position successfully reached. branch must be 0 for a bare Record.
func (r *Record[T]) GoTo(branch, current int) error {
	precondition(branch == 0, "record has only branch 0, got %d", branch)
	if current < 0 {
		current = 0
	}
	if current > len(r.entries) {
		current = len(r.entries)
	}
	for r.current < current {
		ok, err := r.Redo()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	for r.current > current {
		ok, err := r.Undo()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

// SetSaved marks, or unmarks, the current position as saved. Emits
// SavedSignal only if IsSaved's value actually changes.
func (r *Record[T]) SetSaved(saved bool) {
	before := r.IsSaved()
	if saved {
		c := r.current
		r.saved = &c
	} else {
		r.saved = nil
	}
	after := r.IsSaved()
	if before != after {
		r.emit(SavedSignal{Saved: after})
	}
}

// IsSaved reports whether the cursor sits exactly at the saved position.
func (r *Record[T]) IsSaved() bool {
	return r.saved != nil && *r.saved == r.current
}

// SavedPosition reports the saved cursor position, if one has been set.
func (r *Record[T]) SavedPosition() (int, bool) {
	if r.saved == nil {
		return 0, false
	}
	return *r.saved, true
}

// Revert navigates back to the saved position, if one exists.
func (r *Record[T]) Revert() error {
	if r.saved == nil {
		return nil
	}
	return r.GoTo(0, *r.saved)
}

// SetLimit caps the number of retained entries, front-evicting as
// needed, but never evicts the currently active entry: if the requested
// limit would require that, the effective limit for this call is raised
// to len - current instead. Panics if n < 1.
func (r *Record[T]) SetLimit(n int) {
	precondition(n >= 1, "limit must be >= 1, got %d", n)
	r.limit = n
	effective := n
	if protected := len(r.entries) - r.current; effective < protected {
		effective = protected
	}
	for len(r.entries) > effective {
		r.entries = r.entries[1:]
		r.current--
		if r.saved != nil {
			*r.saved--
			if *r.saved < 0 {
				r.saved = nil
			}
		}
		r.metrics.evicted()
	}
}

// Extend applies each command in order, stopping at the first error.
func (r *Record[T]) Extend(commands ...Command[T]) error {
	for _, c := range commands {
		if err := r.Apply(c); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all entries without undoing them.
func (r *Record[T]) Clear() {
	before := r.state()
	r.entries = nil
	r.current = 0
	r.saved = nil
	r.emitDiff(before)
}

// Connect installs a new observer, returning the previous one (nil if
// none was set).
func (r *Record[T]) Connect(o Observer) Observer {
	prev := r.observer
	r.observer = o
	return prev
}

// Disconnect removes and returns the current observer.
func (r *Record[T]) Disconnect() Observer {
	return r.Connect(nil)
}

// Branch always returns 0: a bare Record has no branches.
func (r *Record[T]) Branch() int { return 0 }

// Current returns the cursor position.
func (r *Record[T]) Current() int { return r.current }

// Len returns the number of stored entries.
func (r *Record[T]) Len() int { return len(r.entries) }

// Limit returns the configured capacity.
func (r *Record[T]) Limit() int { return r.limit }

// CanUndo reports whether Undo would have any effect.
func (r *Record[T]) CanUndo() bool { return r.current > 0 }

// CanRedo reports whether Redo would have any effect.
func (r *Record[T]) CanRedo() bool { return r.current < len(r.entries) }

// Target returns a shared view of the target. Mutating through the
// returned pointer bypasses undo tracking; see TargetMut.
func (r *Record[T]) Target() *T { return &r.target }

// TargetMut hands out the same pointer as Target; the name documents
// intent at the call site — changes made through it are invisible to
// undo and may violate command/undo symmetry if misused.
func (r *Record[T]) TargetMut() *T { return &r.target }

// IntoTarget consumes the record's bookkeeping value and returns the
// target by value. The record remains structurally usable afterward but
// is no longer a meaningful source of truth for the returned copy.
func (r *Record[T]) IntoTarget() T { return r.target }

// Queue returns a deferred-commit wrapper over r.
func (r *Record[T]) Queue() *Queue[T] { return NewQueue[T](r) }

// Checkpoint returns a scoped rollback wrapper over r.
func (r *Record[T]) Checkpoint() *Checkpoint[T] { return NewCheckpoint[T](r) }

// EntryAt returns the command, timestamp and timed flag stored at
// position i (0 <= i < Len()), for use by pretty.List.
func (r *Record[T]) EntryAt(i int) (command any, at time.Time, timed bool) {
	e := r.entries[i]
	return e.command, e.at, e.timed
}

func (r *Record[T]) logFields() xlog.Fields {
	return xlog.Fields{"current": r.current, "len": len(r.entries)}
}
