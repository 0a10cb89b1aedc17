package table_test

import (
	"testing"

	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// testKey is a minimal table.Key for exercising Table in isolation from
// pkg/object (which would pull in the GC/value-representation machinery
// this package has no business depending on for its own tests).
type testKey struct {
	s string
	h uint32
}

func (k testKey) HashKey() uint32 { return k.h }
func (k testKey) KeyEqual(other table.Key) bool {
	o, ok := other.(testKey)
	return ok && o.s == k.s
}

func hashFNV(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func key(s string) testKey { return testKey{s: s, h: hashFNV(s)} }

func TestSetGet(t *testing.T) {
	tbl := table.New()
	if isNew := tbl.Set(key("a"), value.NumberValue(1)); !isNew {
		t.Fatal("first Set of a fresh key should report isNew=true")
	}
	v, ok := tbl.Get(key("a"))
	if !ok || v.AsNumber() != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", v, ok)
	}
}

func TestOverwriteIsNotNew(t *testing.T) {
	tbl := table.New()
	tbl.Set(key("a"), value.NumberValue(1))
	if isNew := tbl.Set(key("a"), value.NumberValue(2)); isNew {
		t.Fatal("overwriting an existing key should report isNew=false")
	}
	v, _ := tbl.Get(key("a"))
	if v.AsNumber() != 2 {
		t.Fatalf("Get(a) after overwrite = %v, want 2", v.AsNumber())
	}
}

func TestDeleteThenReinsertAroundTombstone(t *testing.T) {
	tbl := table.New()
	tbl.Set(key("a"), value.NumberValue(1))
	tbl.Set(key("b"), value.NumberValue(2))
	if !tbl.Delete(key("a")) {
		t.Fatal("Delete(a) should succeed")
	}
	if _, ok := tbl.Get(key("a")); ok {
		t.Fatal("a should no longer be found after Delete")
	}
	// b must still be reachable even though probing may have to skip a's
	// tombstone to find it.
	if v, ok := tbl.Get(key("b")); !ok || v.AsNumber() != 2 {
		t.Fatalf("Get(b) = %v, %v; want 2, true", v, ok)
	}
	// Reinserting a deleted key is a new key again.
	if isNew := tbl.Set(key("a"), value.NumberValue(3)); !isNew {
		t.Fatal("reinserting a deleted key should report isNew=true")
	}
	if v, ok := tbl.Get(key("a")); !ok || v.AsNumber() != 3 {
		t.Fatalf("Get(a) after reinsert = %v, %v; want 3, true", v, ok)
	}
}

func TestGrowsPastLoadFactor(t *testing.T) {
	tbl := table.New()
	for i := 0; i < 100; i++ {
		tbl.Set(key(string(rune('a'+i%26))+string(rune(i))), value.NumberValue(float64(i)))
	}
	if tbl.Count() != 100 {
		t.Fatalf("Count() = %d, want 100", tbl.Count())
	}
}

func TestAddAll(t *testing.T) {
	src := table.New()
	src.Set(key("m"), value.NumberValue(1))
	dst := table.New()
	dst.AddAll(src)
	if v, ok := dst.Get(key("m")); !ok || v.AsNumber() != 1 {
		t.Fatalf("AddAll did not copy entry: %v, %v", v, ok)
	}
}
