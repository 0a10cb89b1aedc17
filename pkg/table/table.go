// Package table implements the open-addressed hash table spec §4.5
// requires for globals, class method/field storage, and the VM's
// string-intern set. It is grounded directly on original_source's
// table.c — no pack example implements this algorithm, since it is a
// fixed, observable-behavior requirement of the spec rather than a place
// to reach for a generic map.
package table

import "github.com/kristofer/glox/pkg/value"

// Key is implemented by whatever object type a Table is keyed on (in
// practice, always an interned string object). It is defined here rather
// than imported from pkg/object so that this package never needs to
// depend on pkg/object — object depends on table (for class method/field
// storage), not the other way around.
type Key interface {
	HashKey() uint32
	// KeyEqual reports whether this key and other denote the same
	// logical key. For interned strings this is always pointer
	// equality in practice, but content equality is the contract.
	KeyEqual(other Key) bool
}

type entry struct {
	key   Key
	value value.Value
	// present distinguishes an empty slot from a tombstone: an empty
	// slot's key is nil, a tombstone's key is nil but tombstone is true.
	present   bool
	tombstone bool
}

const maxLoad = 0.75

// Table is an open-addressed hash table with linear probing and
// tombstone-aware deletion, exactly as spec §4.5 describes.
type Table struct {
	count   int // live entries + tombstones
	entries []entry
}

// New returns an empty table; the backing array is allocated lazily on
// first insert, matching clox's capacity-starts-at-zero behavior.
func New() *Table {
	return &Table{}
}

// Get looks up key, returning its value and whether it was found.
func (t *Table) Get(key Key) (value.Value, bool) {
	if len(t.entries) == 0 {
		return value.NilValue, false
	}
	e := t.find(key)
	if !e.present {
		return value.NilValue, false
	}
	return e.value, true
}

// Set inserts or overwrites key's value, returning true if this created a
// brand-new key (as opposed to overwriting one already present).
func (t *Table) Set(key Key, v value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.grow(growCapacity(len(t.entries)))
	}
	idx := t.findIndex(key)
	e := &t.entries[idx]
	isNew := !e.present
	if isNew && !e.tombstone {
		t.count++
	}
	e.key = key
	e.value = v
	e.present = true
	e.tombstone = false
	return isNew
}

// Delete removes key, leaving a tombstone behind so later probes still
// find entries that hashed past it.
func (t *Table) Delete(key Key) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findIndex(key)
	e := &t.entries[idx]
	if !e.present {
		return false
	}
	e.key = nil
	e.value = value.NilValue
	e.present = false
	e.tombstone = true
	return true
}

// FindString looks up an already-interned string by content without
// constructing a Key first, used by the VM's string interning path
// (VM.Intern, which the compiler reaches through its Interner) to find an
// existing String before allocating a new one.
func (t *Table) FindString(chars string, hash uint32, equal func(Key) bool) (Key, bool) {
	if len(t.entries) == 0 {
		return nil, false
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		if !e.present && !e.tombstone {
			return nil, false
		}
		if e.present && equal(e.key) {
			return e.key, true
		}
		idx = (idx + 1) & mask
	}
}

// AddAll copies every entry of src into t (used when a subclass inherits
// its superclass's method table — spec §4.3's OP_INHERIT).
func (t *Table) AddAll(src *Table) {
	for _, e := range src.entries {
		if e.present {
			t.Set(e.key, e.value)
		}
	}
}

// Each calls fn for every live entry. Iteration order is unspecified.
func (t *Table) Each(fn func(Key, value.Value)) {
	for _, e := range t.entries {
		if e.present {
			fn(e.key, e.value)
		}
	}
}

// RemoveWhite deletes every entry whose key is an unmarked object,
// implementing the intern-table's weak-reference sweep (spec §4.6):
// strings that no other root reaches are dropped from the intern set in
// the same pass that collects them.
func (t *Table) RemoveWhite(isMarked func(Key) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.present && !isMarked(e.key) {
			e.key = nil
			e.value = value.NilValue
			e.present = false
			e.tombstone = true
		}
	}
}

func (t *Table) find(key Key) *entry {
	idx := t.findIndex(key)
	return &t.entries[idx]
}

func (t *Table) findIndex(key Key) int {
	mask := uint32(len(t.entries) - 1)
	idx := key.HashKey() & mask
	var tombstone = -1
	for {
		e := &t.entries[idx]
		if !e.present {
			if !e.tombstone {
				if tombstone != -1 {
					return tombstone
				}
				return int(idx)
			}
			if tombstone == -1 {
				tombstone = int(idx)
			}
		} else if key.KeyEqual(e.key) {
			return int(idx)
		}
		idx = (idx + 1) & mask
	}
}

func growCapacity(cap int) int {
	if cap < 8 {
		return 8
	}
	return cap * 2
}

func (t *Table) grow(newCap int) {
	old := t.entries
	t.entries = make([]entry, newCap)
	t.count = 0
	for _, e := range old {
		if e.present {
			idx := t.findIndex(e.key)
			t.entries[idx] = entry{key: e.key, value: e.value, present: true}
			t.count++
		}
	}
}

// Count reports the number of occupied slots: live entries plus
// tombstones. Delete leaves the count unchanged; tombstones leave it only
// when the table grows and rebuilds from its live entries.
func (t *Table) Count() int { return t.count }
