package undo

import "time"

// entry pairs a stored command with the optional timestamp captured at
// apply time.
type entry[T any] struct {
	command Command[T]
	at      time.Time
	timed   bool
}

func newEntry[T any](cmd Command[T], timed bool) entry[T] {
	e := entry[T]{command: cmd, timed: timed}
	if timed {
		if ts, ok := cmd.(Timestamper); ok {
			e.at = ts.Timestamp()
		} else {
			e.at = time.Now()
		}
	}
	return e
}
