package undo

import "testing"

// push appends a single byte to a string target; Merge combines runs of
// pushes so typing "abc" one character at a time can collapse to one
// entry when desired, and an explicit annul pairing is exercised
// separately by annulPush.
type push struct {
	s string
}

func (p *push) Apply(t *string) error { *t += p.s; return nil }
func (p *push) Undo(t *string) error  { *t = (*t)[:len(*t)-len(p.s)]; return nil }

// mergingPush merges with any following mergingPush.
type mergingPush struct {
	s string
}

func (p *mergingPush) Apply(t *string) error { *t += p.s; return nil }
func (p *mergingPush) Undo(t *string) error  { *t = (*t)[:len(*t)-len(p.s)]; return nil }
func (p *mergingPush) Merge(other Command[string]) MergeResult {
	if o, ok := other.(*mergingPush); ok {
		p.s += o.s
		return MergeYes
	}
	return MergeNo
}

// annulPush annuls against a following annulPush carrying the same s.
type annulPush struct {
	s string
}

func (p *annulPush) Apply(t *string) error { *t += p.s; return nil }
func (p *annulPush) Undo(t *string) error  { *t = (*t)[:len(*t)-len(p.s)]; return nil }
func (p *annulPush) Merge(other Command[string]) MergeResult {
	if o, ok := other.(*annulPush); ok && o.s == p.s {
		return MergeAnnul
	}
	return MergeNo
}

func TestRecordLinearUndoRedo(t *testing.T) {
	r := NewRecord[string]("")
	for _, c := range "abc" {
		if err := r.Apply(&push{s: string(c)}); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.IntoTarget(); got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
	for i := 0; i < 3; i++ {
		if ok, err := r.Undo(); err != nil || !ok {
			t.Fatalf("undo %d: ok=%v err=%v", i, ok, err)
		}
	}
	if got := *r.Target(); got != "" {
		t.Fatalf("after undos got %q, want empty", got)
	}
	for i := 0; i < 3; i++ {
		if ok, err := r.Redo(); err != nil || !ok {
			t.Fatalf("redo %d: ok=%v err=%v", i, ok, err)
		}
	}
	if got := *r.Target(); got != "abc" {
		t.Fatalf("after redos got %q, want %q", got, "abc")
	}
}

func TestRecordMerge(t *testing.T) {
	r := NewRecord[string]("")
	must(t, r.Apply(&mergingPush{s: "a"}))
	must(t, r.Apply(&mergingPush{s: "b"}))
	must(t, r.Apply(&mergingPush{s: "c"}))
	if got := *r.Target(); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if r.Len() != 1 {
		t.Fatalf("expected merge to collapse to 1 entry, got %d", r.Len())
	}
	if ok, err := r.Undo(); err != nil || !ok {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if got := *r.Target(); got != "" {
		t.Fatalf("undo of merged entry left %q, want empty", got)
	}
}

func TestRecordAnnul(t *testing.T) {
	r := NewRecord[string]("")
	must(t, r.Apply(&annulPush{s: "x"}))
	must(t, r.Apply(&annulPush{s: "x"}))
	if got := *r.Target(); got != "" {
		t.Fatalf("annul should cancel out, got %q", got)
	}
	if r.Len() != 0 {
		t.Fatalf("expected 0 entries after annul, got %d", r.Len())
	}
}

func TestRecordDetachedTailDiscardedOnApply(t *testing.T) {
	r := NewRecord[string]("")
	must(t, r.Apply(&push{s: "a"}))
	must(t, r.Apply(&push{s: "b"}))
	must(t, r.Apply(&push{s: "c"}))
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	must(t, r.Apply(&push{s: "z"}))
	if got := *r.Target(); got != "az" {
		t.Fatalf("got %q, want %q", got, "az")
	}
	if r.CanRedo() {
		t.Fatal("redo tail should have been discarded by a bare Record")
	}
}

func TestRecordSavedMarker(t *testing.T) {
	r := NewRecord[string]("")
	var signals []Signal
	r.Connect(func(s Signal) { signals = append(signals, s) })

	must(t, r.Apply(&push{s: "a"}))
	must(t, r.Apply(&push{s: "b"}))
	r.SetSaved(true)
	if !r.IsSaved() {
		t.Fatal("expected saved")
	}
	must(t, r.Apply(&push{s: "c"}))
	if r.IsSaved() {
		t.Fatal("expected not saved after a new apply")
	}
	if err := r.Revert(); err != nil {
		t.Fatal(err)
	}
	if !r.IsSaved() || *r.Target() != "ab" {
		t.Fatalf("revert landed at %q saved=%v", *r.Target(), r.IsSaved())
	}

	sawSaved := false
	for _, s := range signals {
		if sv, ok := s.(SavedSignal); ok && sv.Saved {
			sawSaved = true
		}
	}
	if !sawSaved {
		t.Fatal("expected at least one SavedSignal(true)")
	}
}

func TestRecordSetSavedNoSignalOnNoop(t *testing.T) {
	r := NewRecord[string]("")
	r.SetSaved(true)
	count := 0
	r.Connect(func(Signal) { count++ })
	r.SetSaved(true)
	if count != 0 {
		t.Fatalf("expected no signal for a no-op SetSaved(true), got %d", count)
	}
}

func TestRecordLimitEvictionPreservesActive(t *testing.T) {
	r := NewRecord[string]("", WithLimit[string](3))
	for _, c := range "abcde" {
		must(t, r.Apply(&push{s: string(c)}))
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 retained entries, got %d", r.Len())
	}
	if got := *r.Target(); got != "cde" {
		t.Fatalf("got %q, want %q", got, "cde")
	}
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := *r.Target(); got != "c" {
		t.Fatalf("got %q, want %q", got, "c")
	}
	if _, err := r.Redo(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := *r.Target(); got != "cde" {
		t.Fatalf("got %q, want %q", got, "cde")
	}
}

func TestRecordSetLimitNeverEvictsActive(t *testing.T) {
	r := NewRecord[string]("")
	for _, c := range "abcde" {
		must(t, r.Apply(&push{s: string(c)}))
	}
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Undo(); err != nil {
		t.Fatal(err)
	}
	// current=3, len=5; requesting limit 1 must not evict entries 3..5.
	r.SetLimit(1)
	if r.Len() < r.Current() {
		t.Fatalf("SetLimit evicted the active entry: len=%d current=%d", r.Len(), r.Current())
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
