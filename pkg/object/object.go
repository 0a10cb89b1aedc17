// Package object implements the heap-allocated variants of the Lox object
// model: strings, functions, closures, upvalues, classes, instances, bound
// methods, and natives. Every variant embeds Header, which gives it GC
// mark bookkeeping and a slot in the VM's intrusive allocation list.
package object

import "github.com/kristofer/glox/pkg/value"

// Header is embedded by every concrete object type. It carries the two
// things the garbage collector needs on every heap object: the tri-color
// mark bit and the intrusive "next allocated object" link (spec §3, §4.6).
type Header struct {
	marked bool
	next   value.Obj
}

func (h *Header) IsMarked() bool     { return h.marked }
func (h *Header) SetMarked(m bool)   { h.marked = m }
func (h *Header) Next() value.Obj    { return h.next }
func (h *Header) SetNext(n value.Obj) { h.next = n }
