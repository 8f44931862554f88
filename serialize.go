package undo

import (
	"bytes"
	"encoding/gob"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// RecordSnapshot is a Record's wire form. Field order follows the
// Record struct's declaration order; gob itself matches fields by name. Commands
// are encoded as the Command[T] interface, so callers must
// gob.Register every concrete command type they apply before encoding
// or decoding a snapshot.
type RecordSnapshot[T any] struct {
	Target     T
	Commands   []Command[T]
	Timestamps []time.Time
	Current    int
	Saved      *int
	Timed      bool
}

// Snapshot captures r's current state for serialization.
func (r *Record[T]) Snapshot() RecordSnapshot[T] {
	cmds := make([]Command[T], len(r.entries))
	ts := make([]time.Time, len(r.entries))
	for i, e := range r.entries {
		cmds[i] = e.command
		ts[i] = e.at
	}
	return RecordSnapshot[T]{
		Target: r.target, Commands: cmds, Timestamps: ts,
		Current: r.current, Saved: copySavedPtr(r.saved), Timed: r.timed,
	}
}

// Restore replaces r's state with s, without invoking any Command's
// Apply or Undo — the snapshot is assumed to already reflect Target's
// state at Current.
func (r *Record[T]) Restore(s RecordSnapshot[T]) {
	r.target = s.Target
	r.entries = make([]entry[T], len(s.Commands))
	for i, c := range s.Commands {
		r.entries[i] = entry[T]{command: c, at: s.Timestamps[i], timed: s.Timed}
	}
	r.current = s.Current
	r.saved = copySavedPtr(s.Saved)
	r.timed = s.Timed
}

// BranchSnapshot is a parked branch's wire form.
type BranchSnapshot[T any] struct {
	Parent     At
	Commands   []Command[T]
	Timestamps []time.Time
	Current    int
}

// HistorySnapshot is a History's wire form, including every parked
// branch. See RecordSnapshot for the gob.Register requirement.
type HistorySnapshot[T any] struct {
	Target       T
	Root         int
	ActiveParent At
	Commands     []Command[T]
	Timestamps   []time.Time
	Current      int
	Next         int
	Branches     map[int]BranchSnapshot[T]
	Saved        *int
	HistorySaved map[int]int
	Timed        bool
}

func snapshotEntries[T any](entries []entry[T]) ([]Command[T], []time.Time) {
	cmds := make([]Command[T], len(entries))
	ts := make([]time.Time, len(entries))
	for i, e := range entries {
		cmds[i] = e.command
		ts[i] = e.at
	}
	return cmds, ts
}

func restoreEntries[T any](cmds []Command[T], ts []time.Time, timed bool) []entry[T] {
	entries := make([]entry[T], len(cmds))
	for i, c := range cmds {
		entries[i] = entry[T]{command: c, at: ts[i], timed: timed}
	}
	return entries
}

// Snapshot captures h's current state, including every parked branch,
// for serialization.
func (h *History[T]) Snapshot() HistorySnapshot[T] {
	cmds, ts := snapshotEntries(h.entries)
	branches := make(map[int]BranchSnapshot[T], len(h.branches))
	for id, b := range h.branches {
		bc, bt := snapshotEntries(b.entries)
		branches[id] = BranchSnapshot[T]{Parent: b.parent, Commands: bc, Timestamps: bt, Current: b.current}
	}
	historySaved := make(map[int]int, len(h.historySaved))
	for id, pos := range h.historySaved {
		historySaved[id] = pos
	}
	return HistorySnapshot[T]{
		Target: h.target, Root: h.root, ActiveParent: h.activeParent,
		Commands: cmds, Timestamps: ts, Current: h.current, Next: h.next,
		Branches: branches, Saved: copySavedPtr(h.saved), HistorySaved: historySaved, Timed: h.timed,
	}
}

// Restore replaces h's state with s, without invoking any Command.
func (h *History[T]) Restore(s HistorySnapshot[T]) {
	h.target = s.Target
	h.root = s.Root
	h.activeParent = s.ActiveParent
	h.entries = restoreEntries(s.Commands, s.Timestamps, s.Timed)
	h.current = s.Current
	h.next = s.Next
	h.branches = make(map[int]branch[T], len(s.Branches))
	for id, b := range s.Branches {
		h.branches[id] = branch[T]{parent: b.Parent, entries: restoreEntries(b.Commands, b.Timestamps, s.Timed), current: b.Current}
	}
	h.saved = copySavedPtr(s.Saved)
	h.historySaved = make(map[int]int, len(s.HistorySaved))
	for id, pos := range s.HistorySaved {
		h.historySaved[id] = pos
	}
	h.timed = s.Timed
}

// MarshalSnapshot gob-encodes any Record or History snapshot, optionally
// wrapping the result in zstd compression.
func MarshalSnapshot(snapshot any, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return nil, errors.WithStack(err)
	}
	if !compress {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	zw, err := zstd.NewWriter(&out)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := zw.Write(buf.Bytes()); err != nil {
		zw.Close()
		return nil, errors.WithStack(err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.WithStack(err)
	}
	return out.Bytes(), nil
}

// UnmarshalSnapshot decodes data produced by MarshalSnapshot into dst,
// which must be a pointer to a RecordSnapshot[T] or HistorySnapshot[T].
func UnmarshalSnapshot(data []byte, compressed bool, dst any) error {
	raw := data
	if compressed {
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return errors.WithStack(err)
		}
		defer zr.Close()
		decoded, err := io.ReadAll(zr)
		if err != nil {
			return errors.WithStack(err)
		}
		raw = decoded
	}
	return errors.WithStack(gob.NewDecoder(bytes.NewReader(raw)).Decode(dst))
}
