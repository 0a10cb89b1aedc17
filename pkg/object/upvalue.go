package object

import "github.com/kristofer/glox/pkg/value"

// Upvalue is a closure's reference to a variable that outlives the stack
// frame that declared it. While Open, Location points at a live VM stack
// slot; Close copies the value into Closed and flips the upvalue to
// pointing at itself, exactly mirroring clox's open/closed upvalue
// lifecycle (spec §4.3, §4.4).
type Upvalue struct {
	Header
	// Location is the stack slot this upvalue currently reads/writes
	// while open; callers dereference via Get/Set rather than touching
	// it directly so Close can transparently redirect them.
	Location *value.Value
	// Slot is the stack index Location was captured from. The VM keeps
	// its open-upvalue list ordered by descending Slot purely as bookkeeping
	// (spec §4.3/§4.4); it never affects Get/Set.
	Slot     int
	Closed   value.Value
	NextOpen *Upvalue // next node in the VM's open-upvalue list, sorted by descending stack slot
}

// NewUpvalue captures a live stack location at the given slot index.
func NewUpvalue(slot int, loc *value.Value) *Upvalue {
	return &Upvalue{Location: loc, Slot: slot}
}

// Close copies the pointed-to value into the upvalue itself and redirects
// Location to point at that private copy, detaching it from the stack.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *Upvalue) Get() value.Value  { return *u.Location }
func (u *Upvalue) Set(v value.Value) { *u.Location = v }

func (u *Upvalue) ObjType() value.ObjType { return value.ObjUpvalue }
func (u *Upvalue) String() string         { return "<upvalue>" }
