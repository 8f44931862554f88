// Package pretty renders a Record or History's entries as a bulleted
// list or a branch tree, entirely through small read-only accessor
// interfaces so it never imports the undo package's concrete types.
package pretty

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/holtfell/undo/internal/idset"
)

// EntryFormatter turns a single entry into its display text. i is the
// entry's index within its branch. Implementations typically type
// switch or call Stringer/fmt on the underlying command.
type EntryFormatter func(i int, command any, at time.Time, timed bool) string

// Linear is the read-only view a Record (or a single History branch)
// exposes to the renderer.
type Linear interface {
	Branch() int
	Current() int
	Len() int
	IsSaved() bool
	// SavedPosition reports the saved cursor position, if one has been
	// set, regardless of where the cursor currently sits.
	SavedPosition() (int, bool)
	// EntryAt returns the command, its timestamp, and whether the
	// timestamp is meaningful, for the entry at position i (0-indexed,
	// 0 <= i < Len()).
	EntryAt(i int) (command any, at time.Time, timed bool)
}

// Tree extends Linear with branch-tree navigation, the view a History
// exposes.
type Tree interface {
	Linear
	// Branches returns every branch id other than the active one.
	Branches() []int
	// ParentOf reports the (branch, current) at which id diverged from
	// its parent; ok is false for the tree's true root or an unknown id.
	ParentOf(id int) (branch, current int, ok bool)
	// BranchLen reports the number of entries in branch id, or -1 if
	// id is unknown.
	BranchLen(id int) int
	// BranchEntryAt is EntryAt scoped to an arbitrary branch id, active
	// or parked.
	BranchEntryAt(branch, i int) (command any, at time.Time, timed bool)
	// BranchSavedPosition reports the saved cursor position parked on
	// a non-active branch id, if any.
	BranchSavedPosition(id int) (int, bool)
}

func defaultFormatter(_ int, command any, _ time.Time, _ bool) string {
	if s, ok := command.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", command)
}

// List writes l as a flat, bulleted list to w, one entry per line, with
// "(current)" after the entry the cursor sits just past and "(saved)"
// after the saved entry, if any.
func List(w io.Writer, l Linear, format EntryFormatter, showTimestamps bool) error {
	if format == nil {
		format = defaultFormatter
	}
	savedAt, hasSaved := l.SavedPosition()
	for i := 0; i < l.Len(); i++ {
		cmd, at, timed := l.EntryAt(i)
		line := fmt.Sprintf("- %s", format(i, cmd, at, timed))
		if showTimestamps && timed {
			line += fmt.Sprintf(" [%s]", at.Format(time.RFC3339))
		}
		if i+1 == l.Current() {
			line += " (current)"
		}
		if hasSaved && i+1 == savedAt {
			line += " (saved)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if l.Current() == 0 && l.Len() == 0 {
		if _, err := fmt.Fprintln(w, "(empty)"); err != nil {
			return err
		}
	}
	return nil
}

// ForestOf writes t's branch tree to w as nested Unicode-tree lines: a
// "[branch N]" header per branch ("(active)" on the active one), then
// that branch's entries with "(current)"/"(saved)" decorations where
// they apply. Entry lines carry no per-entry position coordinate.
func ForestOf(w io.Writer, t Tree, format EntryFormatter, showTimestamps bool) error {
	if format == nil {
		format = defaultFormatter
	}
	children := childrenOf(t)
	return writeBranch(w, t, t.Branch(), 0, "", true, children, format, showTimestamps)
}

func childrenOf(t Tree) map[int][]int {
	out := make(map[int][]int)
	ids := idset.New(t.Branches()...)
	ids.Each(func(id int) bool {
		if parent, _, ok := t.ParentOf(id); ok {
			out[parent] = append(out[parent], id)
		}
		return false
	})
	for _, kids := range out {
		sort.Ints(kids)
	}
	return out
}

func writeBranch(w io.Writer, t Tree, id, depth int, prefix string, last bool, children map[int][]int, format EntryFormatter, showTimestamps bool) error {
	connector := "├── "
	if last {
		connector = "└── "
	}
	if depth == 0 {
		connector = ""
	}
	header := fmt.Sprintf("%s%s[branch %d]", prefix, connector, id)
	if id == t.Branch() {
		header += " (active)"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	childPrefix := prefix
	if depth > 0 {
		if last {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	length := t.BranchLen(id)
	current := -1
	if id == t.Branch() {
		current = t.Current()
	}
	savedAt, hasSaved := -1, false
	if id == t.Branch() {
		savedAt, hasSaved = t.SavedPosition()
	} else {
		savedAt, hasSaved = t.BranchSavedPosition(id)
	}
	for i := 0; i < length; i++ {
		cmd, at, timed := t.BranchEntryAt(id, i)
		line := fmt.Sprintf("%s    %s", childPrefix, format(i, cmd, at, timed))
		if showTimestamps && timed {
			line += fmt.Sprintf(" [%s]", at.Format(time.RFC3339))
		}
		if current >= 0 && i+1 == current {
			line += " (current)"
		}
		if hasSaved && i+1 == savedAt {
			line += " (saved)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	kids := children[id]
	for i, kid := range kids {
		if err := writeBranch(w, t, kid, depth+1, childPrefix, i == len(kids)-1, children, format, showTimestamps); err != nil {
			return err
		}
	}
	return nil
}
