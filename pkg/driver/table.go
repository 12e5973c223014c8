package driver

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Matcher is implemented by devices. MatchID reports whether the device
// is compatible with one identifier-table entry.
type Matcher[I comparable] interface {
	MatchID(id I) bool
}

// Entry is one identifier with optional per-entry match context.
type Entry[I comparable, C any] struct {
	id      I
	info    C
	hasInfo bool
}

// NewEntry creates an entry without context.
func NewEntry[I comparable, C any](id I) Entry[I, C] {
	return Entry[I, C]{id: id}
}

// NewEntryWithInfo creates an entry carrying match context.
func NewEntryWithInfo[I comparable, C any](id I, info C) Entry[I, C] {
	return Entry[I, C]{id: id, info: info, hasInfo: true}
}

// ID returns the identifier.
func (e Entry[I, C]) ID() I {
	return e.id
}

// Info returns the entry context and whether one was set.
func (e Entry[I, C]) Info() (C, bool) {
	return e.info, e.hasInfo
}

// Table is an ordered, immutable identifier table. Order is significant:
// the first matching entry wins.
type Table[I comparable, C any] struct {
	entries []Entry[I, C]
}

// NewTable builds a table. Repeated identifiers are rejected with
// errcode.ErrInvalidArgument. An empty table is valid and never matches.
func NewTable[I comparable, C any](entries ...Entry[I, C]) (*Table[I, C], error) {
	seen := make(map[I]int, len(entries))
	for i, e := range entries {
		if j, dup := seen[e.id]; dup {
			return nil, fmt.Errorf("%w: identifier %v at entries %d and %d", errcode.ErrInvalidArgument, e.id, j, i)
		}
		seen[e.id] = i
	}
	t := &Table[I, C]{entries: make([]Entry[I, C], len(entries))}
	copy(t.entries, entries)
	return t, nil
}

// MustTable is like NewTable but panics on error. It is meant for
// package-level driver tables.
func MustTable[I comparable, C any](entries ...Entry[I, C]) *Table[I, C] {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *Table[I, C]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// At returns the entry at index i.
func (t *Table[I, C]) At(i int) Entry[I, C] {
	return t.entries[i]
}

// IDs returns the identifiers in table order.
func (t *Table[I, C]) IDs() []I {
	out := make([]I, t.Len())
	for i := range out {
		out[i] = t.entries[i].id
	}
	return out
}

// Match returns the first entry the device is compatible with and its
// index. A matcher that panics is treated as not matching that entry.
func (t *Table[I, C]) Match(dev Matcher[I]) (Entry[I, C], int, bool) {
	for i := 0; i < t.Len(); i++ {
		if safeMatch(dev, t.entries[i].id) {
			return t.entries[i], i, true
		}
	}
	return Entry[I, C]{}, -1, false
}

func safeMatch[I comparable](dev Matcher[I], id I) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return dev.MatchID(id)
}
