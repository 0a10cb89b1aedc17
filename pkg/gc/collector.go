// Package gc implements the tracing mark-sweep collector spec §4.6
// requires: tri-color marking over an intrusive allocation list, a
// resizable gray worklist, and a self-adjusting heap-growth trigger.
//
// Go's own runtime garbage collector still owns memory underneath
// everything here — there is no way to hand-roll free() in safe Go. What
// this package gives back is the part of spec §4.6 that's actually
// observable: when a collection runs, what it marks, and the
// bytesAllocated/nextGC bookkeeping that decides when one is due. Sweep
// reclaims objects by unlinking them from the list and dropping every
// root's last reference, which is enough for the host runtime to recycle
// the memory on its own next cycle. See DESIGN.md's Open Question #3.
package gc

import (
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// GrowthFactor is the self-adjusting heap multiplier spec §4.6 specifies:
// after a collection, the next one is due once bytesAllocated again
// exceeds nextGC, where nextGC = bytesAllocated * GrowthFactor.
const GrowthFactor = 2

// InitialNextGC is the starting collection threshold, in "units" (one per
// allocated object, since Go doesn't expose per-object byte sizes the way
// C's sizeof does) — enough headroom that interactive REPL sessions don't
// collect on every line.
const InitialNextGC = 1 << 20

// RootProvider is implemented by anything that owns GC roots — the VM
// (its value stack, call frames, open upvalues, globals table) and the
// compiler (every Compiler on the enclosing-function chain, so
// in-progress compilation survives a collection triggered mid-expression
// by string interning). Both the VM and the compiler implement this so
// the collector can treat their roots identically, per spec §4.6.
type RootProvider interface {
	MarkRoots(c *Collector)
}

// Logger receives trace lines when GC logging is enabled (--gc-log);
// *logrus.Logger satisfies this.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}

// Collector owns the intrusive allocation list and drives mark-sweep
// collection. It does not allocate objects itself (pkg/object's
// constructors do); callers register each new object with Track so it
// enters the list and the byte-accounting.
type Collector struct {
	head           value.Obj // head of the intrusive allocation list
	gray           []value.Obj
	bytesAllocated int
	nextGC         int
	stressGC       bool
	log            Logger
	strings        *table.Table // weak string-intern set, swept each cycle
	providers      []RootProvider
}

// New returns a ready Collector. strings is the VM's string-intern table;
// it is swept (not just marked) every cycle so interned strings no longer
// reachable from any root stop pinning memory (spec §4.6).
func New(strings *table.Table) *Collector {
	return &Collector{nextGC: InitialNextGC, log: noopLogger{}, strings: strings}
}

// SetStressMode, when enabled, makes every Track call run a full
// collection first — clox's DEBUG_STRESS_GC, exposed here as --stress-gc.
func (c *Collector) SetStressMode(on bool) { c.stressGC = on }

// SetLogger installs a Logger for GC trace output (-gc-log).
func (c *Collector) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	c.log = l
}

// AddRootProvider registers a root source; the VM and every live Compiler
// register themselves so the gray worklist seeds from both simultaneously.
func (c *Collector) AddRootProvider(p RootProvider) {
	c.providers = append(c.providers, p)
}

// RemoveRootProvider unregisters a root source (a Compiler does this once
// it finishes compiling a function body and control returns to its
// enclosing Compiler).
func (c *Collector) RemoveRootProvider(p RootProvider) {
	for i, existing := range c.providers {
		if existing == p {
			c.providers = append(c.providers[:i], c.providers[i+1:]...)
			return
		}
	}
}

// Track links obj into the allocation list and accounts for it, running a
// collection first if the heap has grown past nextGC (or stress mode is
// on). Every pkg/object constructor call that produces a new heap object
// must route through this so the collector's view of the heap stays
// complete.
func (c *Collector) Track(obj value.Obj) {
	if c.stressGC || c.bytesAllocated+1 > c.nextGC {
		c.Collect()
	}
	obj.SetNext(c.head)
	c.head = obj
	c.bytesAllocated++
}

// Collect runs one full mark-sweep cycle.
func (c *Collector) Collect() {
	before := c.bytesAllocated
	c.markRoots()
	c.traceReferences()
	c.sweepStrings()
	c.sweep()
	c.nextGC = c.bytesAllocated * GrowthFactor
	if c.nextGC < InitialNextGC {
		c.nextGC = InitialNextGC
	}
	c.log.Debugf("gc: collected %d (from %d to %d) next at %d", before-c.bytesAllocated, before, c.bytesAllocated, c.nextGC)
}

func (c *Collector) markRoots() {
	for _, p := range c.providers {
		p.MarkRoots(c)
	}
}

// MarkValue marks v if it holds a heap object.
func (c *Collector) MarkValue(v value.Value) {
	if v.IsObj() {
		c.MarkObject(v.AsObj())
	}
}

// MarkObject grays obj if it isn't already marked, pushing it onto the
// worklist for traceReferences to expand later. Using the built-in append
// for the worklist means growing it never re-enters Track/Collect, which
// is what spec §4.6 requires of the gray stack.
func (c *Collector) MarkObject(obj value.Obj) {
	if obj == nil || obj.IsMarked() {
		return
	}
	obj.SetMarked(true)
	c.gray = append(c.gray, obj)
}

// MarkKey marks k if it is itself a heap object, as table keys (interned
// Strings) are — original_source's table.c:markTable marks entry->key
// alongside entry->value for exactly this reason: a name string reachable
// only as a globals/method/field key, with no surviving on-stack constant
// reference, must not be swept out from under the intern table.
func (c *Collector) MarkKey(k table.Key) {
	if obj, ok := k.(value.Obj); ok {
		c.MarkObject(obj)
	}
}

func (c *Collector) traceReferences() {
	for len(c.gray) > 0 {
		obj := c.gray[len(c.gray)-1]
		c.gray = c.gray[:len(c.gray)-1]
		c.blacken(obj)
	}
}

// blacken marks every reference obj holds. Object headers carry no
// reference info of their own, so this switches on concrete type exactly
// the way original_source's memory.c's blackenObject does.
func (c *Collector) blacken(obj value.Obj) {
	switch o := obj.(type) {
	case *object.String, *object.Native:
		// no outgoing references
	case *object.Upvalue:
		c.MarkValue(o.Get())
	case *object.Function:
		if o.Name != nil {
			c.MarkObject(o.Name)
		}
		for _, k := range o.Chunk.Constants {
			c.MarkValue(k)
		}
	case *object.Closure:
		c.MarkObject(o.Function)
		for _, uv := range o.Upvalues {
			c.MarkObject(uv)
		}
	case *object.Class:
		c.MarkObject(o.Name)
		o.Methods.Each(func(k table.Key, v value.Value) {
			c.MarkKey(k)
			c.MarkValue(v)
		})
	case *object.Instance:
		c.MarkObject(o.Class)
		o.Fields.Each(func(k table.Key, v value.Value) {
			c.MarkKey(k)
			c.MarkValue(v)
		})
	case *object.BoundMethod:
		c.MarkValue(o.Receiver)
		c.MarkObject(o.Method)
	}
}

func (c *Collector) sweepStrings() {
	if c.strings == nil {
		return
	}
	c.strings.RemoveWhite(func(k table.Key) bool {
		obj, ok := k.(value.Obj)
		return ok && obj.IsMarked()
	})
}

func (c *Collector) sweep() {
	var prev value.Obj
	cur := c.head
	for cur != nil {
		if cur.IsMarked() {
			cur.SetMarked(false)
			prev = cur
			cur = cur.Next()
			continue
		}
		unreached := cur
		cur = cur.Next()
		if prev != nil {
			prev.SetNext(cur)
		} else {
			c.head = cur
		}
		c.bytesAllocated--
		_ = unreached // dropped: the host runtime reclaims it from here
	}
}
