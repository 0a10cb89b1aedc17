package gc_test

import (
	"testing"

	"github.com/kristofer/glox/pkg/gc"
	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// fakeRoots lets a test control exactly what the collector sees as live.
type fakeRoots struct {
	roots []value.Obj
}

func (r *fakeRoots) MarkRoots(c *gc.Collector) {
	for _, o := range r.roots {
		c.MarkObject(o)
	}
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	strings := table.New()
	c := gc.New(strings)

	reachable := object.NewString("kept")
	unreachable := object.NewString("dropped")
	c.Track(reachable)
	c.Track(unreachable)

	roots := &fakeRoots{roots: []value.Obj{reachable}}
	c.AddRootProvider(roots)

	c.Collect()

	// The only externally observable effect of a sweep on this API is the
	// bytesAllocated/Track-threshold bookkeeping, so drive it indirectly:
	// marking should have left `reachable` unmarked again (sweep resets
	// live objects' mark bit for the next cycle) while not touching
	// identity.
	if reachable.IsMarked() {
		t.Fatal("sweep should clear the mark bit on surviving objects")
	}
}

func TestTrackRunsCollectionUnderStress(t *testing.T) {
	strings := table.New()
	c := gc.New(strings)
	c.SetStressMode(true)

	roots := &fakeRoots{}
	c.AddRootProvider(roots)

	// With nothing rooted and stress mode on, every Track beyond the first
	// should immediately collect its predecessor away. This is a smoke
	// test that Collect runs without panicking when invoked repeatedly
	// via Track, not a precise accounting check.
	for i := 0; i < 5; i++ {
		c.Track(object.NewString("x"))
	}
}

func TestRemoveRootProviderStopsContributingRoots(t *testing.T) {
	strings := table.New()
	c := gc.New(strings)

	obj := object.NewString("temp")
	c.Track(obj)
	strings.Set(obj, value.ObjValue(obj))

	roots := &fakeRoots{roots: []value.Obj{obj}}
	c.AddRootProvider(roots)
	c.RemoveRootProvider(roots)

	// obj is no longer rooted by anything, so a collection does not mark
	// it and the weak intern table drops it. Had the removed provider
	// still contributed roots, obj would stay in the table.
	c.Collect()

	if _, ok := strings.Get(obj); ok {
		t.Fatal("a removed root provider should no longer keep its objects alive")
	}
}

func TestWeakStringInternSweep(t *testing.T) {
	strings := table.New()
	c := gc.New(strings)

	s := object.NewString("interned")
	c.Track(s)
	strings.Set(s, value.ObjValue(s))

	roots := &fakeRoots{} // nothing keeps s alive
	c.AddRootProvider(roots)

	c.Collect()

	if _, ok := strings.Get(s); ok {
		t.Fatal("an unreferenced interned string should be removed from the weak intern table on sweep")
	}
}
