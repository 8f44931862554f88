package undo

import (
	"encoding/gob"
	"testing"
)

// gobPush is push's serialization-friendly twin: gob only encodes
// exported fields, and push's lowercase s is unexported by design for
// the in-memory-only tests elsewhere in this package.
type gobPush struct {
	S string
}

func (p *gobPush) Apply(t *string) error { *t += p.S; return nil }
func (p *gobPush) Undo(t *string) error  { *t = (*t)[:len(*t)-len(p.S)]; return nil }

func init() {
	gob.Register(&gobPush{})
}

func TestRecordSnapshotRoundTrip(t *testing.T) {
	r := NewRecord[string]("", WithTimestamps[string](true))
	must(t, r.Apply(&gobPush{S: "a"}))
	must(t, r.Apply(&gobPush{S: "b"}))
	must(t, r.Apply(&gobPush{S: "c"}))
	r.SetSaved(true)
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}

	snap := r.Snapshot()
	data, err := MarshalSnapshot(snap, false)
	if err != nil {
		t.Fatal(err)
	}

	var decoded RecordSnapshot[string]
	if err := UnmarshalSnapshot(data, false, &decoded); err != nil {
		t.Fatal(err)
	}

	r2 := NewRecord[string]("")
	r2.Restore(decoded)
	if got := *r2.Target(); got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
	if r2.Len() != 3 {
		t.Fatalf("expected 3 entries restored, got %d", r2.Len())
	}
	if r2.Current() != 2 {
		t.Fatalf("expected cursor at 2, got %d", r2.Current())
	}
	if r2.IsSaved() {
		t.Fatal("saved position should not match the post-undo cursor")
	}
	if _, err := r2.Redo(); err != nil {
		t.Fatal(err)
	}
	if !r2.IsSaved() {
		t.Fatal("expected saved marker to survive the round trip")
	}
}

func TestRecordSnapshotCompressedRoundTrip(t *testing.T) {
	r := NewRecord[string]("")
	must(t, r.Apply(&gobPush{S: "a"}))

	data, err := MarshalSnapshot(r.Snapshot(), true)
	if err != nil {
		t.Fatal(err)
	}
	var decoded RecordSnapshot[string]
	if err := UnmarshalSnapshot(data, true, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Target != "a" {
		t.Fatalf("got %q, want %q", decoded.Target, "a")
	}
}

// TestHistorySnapshotRoundTrip covers a History with a parked branch,
// exercising the Branches map and the historySaved side table.
func TestHistorySnapshotRoundTrip(t *testing.T) {
	h := NewHistory[string]("")
	must(t, h.Apply(&gobPush{S: "a"}))
	must(t, h.Apply(&gobPush{S: "b"}))
	must(t, h.Apply(&gobPush{S: "c"}))
	h.SetSaved(true) // saves at the "abc" tip
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	must(t, h.Apply(&gobPush{S: "z"})) // diverges: parks "b,c", migrating the saved marker onto it

	if h.IsSaved() {
		t.Fatal("saved position moved onto the detached tail, active branch should not report saved")
	}

	snap := h.Snapshot()
	data, err := MarshalSnapshot(snap, false)
	if err != nil {
		t.Fatal(err)
	}

	var decoded HistorySnapshot[string]
	if err := UnmarshalSnapshot(data, false, &decoded); err != nil {
		t.Fatal(err)
	}

	h2 := NewHistory[string]("")
	h2.Restore(decoded)
	if got := *h2.Target(); got != "az" {
		t.Fatalf("got %q, want %q", got, "az")
	}
	if len(h2.Branches()) != 1 {
		t.Fatalf("expected 1 parked branch restored, got %d", len(h2.Branches()))
	}
	if h2.IsSaved() {
		t.Fatal("the active branch should not report saved after restore")
	}

	parked := h2.Branches()[0]
	if err := h2.GoTo(parked, 3); err != nil {
		t.Fatal(err)
	}
	if got := *h2.Target(); got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
	if !h2.IsSaved() {
		t.Fatal("expected the saved marker to resurface on the parked branch it was migrated onto")
	}
}
