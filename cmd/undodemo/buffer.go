package main

import (
	"fmt"
	"unicode"

	undo "github.com/holtfell/undo"
)

// Buffer is the worked example's target type: a single line of text.
type Buffer struct {
	Text string
}

func clampPos(b *Buffer, pos int) int {
	r := []rune(b.Text)
	if pos < 0 {
		return 0
	}
	if pos > len(r) {
		return len(r)
	}
	return pos
}

// InsertCommand inserts Text at Pos. Adjacent single, non-space
// characters typed in sequence merge into one entry.
type InsertCommand struct {
	Pos  int
	Text string
}

func (c *InsertCommand) Apply(b *Buffer) error {
	r := []rune(b.Text)
	pos := clampPos(b, c.Pos)
	out := make([]rune, 0, len(r)+len([]rune(c.Text)))
	out = append(out, r[:pos]...)
	out = append(out, []rune(c.Text)...)
	out = append(out, r[pos:]...)
	b.Text = string(out)
	return nil
}

func (c *InsertCommand) Undo(b *Buffer) error {
	r := []rune(b.Text)
	n := len([]rune(c.Text))
	pos := clampPos(b, c.Pos)
	if pos+n > len(r) {
		return fmt.Errorf("undodemo: insert undo out of range at %d", pos)
	}
	out := make([]rune, 0, len(r)-n)
	out = append(out, r[:pos]...)
	out = append(out, r[pos+n:]...)
	b.Text = string(out)
	return nil
}

func (c *InsertCommand) Merge(other undo.Command[Buffer]) undo.MergeResult {
	if o, ok := other.(*InsertCommand); ok {
		if o.Pos == c.Pos+len([]rune(c.Text)) && len([]rune(o.Text)) == 1 && !unicode.IsSpace([]rune(o.Text)[0]) {
			c.Text += o.Text
			return undo.MergeYes
		}
	}
	if o, ok := other.(*DeleteCommand); ok {
		n := len([]rune(c.Text))
		if n == 1 && o.Pos == c.Pos && o.Length == 1 {
			return undo.MergeAnnul
		}
	}
	return undo.MergeNo
}

func (c *InsertCommand) String() string {
	return fmt.Sprintf("insert %q at %d", c.Text, c.Pos)
}

// DeleteCommand removes Length runes starting at Pos. Removed is
// captured on Apply so Undo can restore it; adjacent single-character
// backspaces (deleting immediately before the prior deletion) merge.
type DeleteCommand struct {
	Pos     int
	Length  int
	Removed string
}

func (c *DeleteCommand) Apply(b *Buffer) error {
	r := []rune(b.Text)
	pos := clampPos(b, c.Pos)
	end := pos + c.Length
	if end > len(r) {
		end = len(r)
	}
	if end < pos {
		return fmt.Errorf("undodemo: delete range invalid at %d", pos)
	}
	c.Removed = string(r[pos:end])
	out := make([]rune, 0, len(r)-(end-pos))
	out = append(out, r[:pos]...)
	out = append(out, r[end:]...)
	b.Text = string(out)
	return nil
}

func (c *DeleteCommand) Undo(b *Buffer) error {
	r := []rune(b.Text)
	pos := clampPos(b, c.Pos)
	out := make([]rune, 0, len(r)+len([]rune(c.Removed)))
	out = append(out, r[:pos]...)
	out = append(out, []rune(c.Removed)...)
	out = append(out, r[pos:]...)
	b.Text = string(out)
	return nil
}

func (c *DeleteCommand) Merge(other undo.Command[Buffer]) undo.MergeResult {
	if o, ok := other.(*DeleteCommand); ok {
		// o.Removed is already populated here: the record/history apply
		// path always runs the incoming command before asking for a
		// merge decision.
		if o.Length == 1 && o.Pos == c.Pos-1 {
			c.Pos = o.Pos
			c.Removed = o.Removed + c.Removed
			c.Length++
			return undo.MergeYes
		}
	}
	return undo.MergeNo
}

func (c *DeleteCommand) String() string {
	return fmt.Sprintf("delete %d runes at %d", c.Length, c.Pos)
}
