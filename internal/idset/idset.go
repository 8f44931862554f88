// Package idset is a small generic set of branch ids, backed by
// golang-set, used by History's pruning and tree-rendering code.
package idset

import mapset "github.com/deckarep/golang-set/v2"

// Set is a set of branch ids.
type Set = mapset.Set[int]

// New returns a new, empty Set, or one containing the given ids.
func New(ids ...int) Set {
	return mapset.NewSet(ids...)
}
