package main

import (
	"testing"

	undo "github.com/holtfell/undo"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestInsertCommandApplyUndo(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{})
	must(t, h.Apply(&InsertCommand{Pos: 0, Text: "hello"}))
	if got := h.Target().Text; got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	must(t, h.Apply(&InsertCommand{Pos: 5, Text: " world"}))
	if got := h.Target().Text; got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := h.Target().Text; got != "hello" {
		t.Fatalf("after undo got %q, want %q", got, "hello")
	}
}

// TestInsertCommandMergeAppliesIncomingText exercises the merge path
// that the record/history apply-merge fix depends on: two single
// non-space characters typed back to back must merge into one entry
// AND the second character's own Apply must still land on the buffer.
func TestInsertCommandMergeAppliesIncomingText(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{})
	must(t, h.Apply(&InsertCommand{Pos: 0, Text: "a"}))
	must(t, h.Apply(&InsertCommand{Pos: 1, Text: "b"}))
	must(t, h.Apply(&InsertCommand{Pos: 2, Text: "c"}))

	if got := h.Target().Text; got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
	if h.Len() != 1 {
		t.Fatalf("expected the three single-char inserts to merge into 1 entry, got %d", h.Len())
	}

	// A single undo must reverse the whole merged run, not just the
	// last character, since only one entry was ever recorded.
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := h.Target().Text; got != "" {
		t.Fatalf("got %q, want %q", got, "")
	}
}

func TestInsertCommandDoesNotMergeAcrossSpace(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{})
	must(t, h.Apply(&InsertCommand{Pos: 0, Text: "a"}))
	must(t, h.Apply(&InsertCommand{Pos: 1, Text: " "}))
	if h.Len() != 2 {
		t.Fatalf("expected a space to break the merge run, got %d entries", h.Len())
	}
}

func TestDeleteCommandApplyUndo(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{Text: "hello world"})
	must(t, h.Apply(&DeleteCommand{Pos: 5, Length: 6}))
	if got := h.Target().Text; got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := h.Target().Text; got != "hello world" {
		t.Fatalf("after undo got %q, want %q", got, "hello world")
	}
}

// TestDeleteCommandMergeBackspaceRun exercises the backward merge
// direction: successive single-rune backspaces accumulate into one
// entry, growing Removed and shifting Pos leftward.
func TestDeleteCommandMergeBackspaceRun(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{Text: "abc"})
	must(t, h.Apply(&DeleteCommand{Pos: 2, Length: 1})) // removes "c" -> "ab"
	must(t, h.Apply(&DeleteCommand{Pos: 1, Length: 1})) // removes "b" -> "a"

	if got := h.Target().Text; got != "a" {
		t.Fatalf("got %q, want %q", got, "a")
	}
	if h.Len() != 1 {
		t.Fatalf("expected the backspace run to merge into 1 entry, got %d", h.Len())
	}
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := h.Target().Text; got != "abc" {
		t.Fatalf("after undo got %q, want %q", got, "abc")
	}
}

// TestInsertDeleteAnnul covers the cross-type MergeAnnul case: deleting
// the single character just inserted cancels both out of the history
// entirely, per undo.MergeAnnul's contract.
func TestInsertDeleteAnnul(t *testing.T) {
	h := undo.NewRecord[Buffer](Buffer{Text: "ab"})
	must(t, h.Apply(&InsertCommand{Pos: 2, Text: "c"}))
	if got := h.Target().Text; got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
	must(t, h.Apply(&DeleteCommand{Pos: 2, Length: 1}))
	if got := h.Target().Text; got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
	if h.Len() != 0 {
		t.Fatalf("expected insert+delete to annul away, got %d entries", h.Len())
	}
}
