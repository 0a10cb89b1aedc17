package object_test

import (
	"testing"

	"github.com/kristofer/glox/pkg/object"
	"github.com/kristofer/glox/pkg/value"
)

func TestHeaderMarkedDefaultsFalse(t *testing.T) {
	s := object.NewString("hi")
	if s.IsMarked() {
		t.Fatal("freshly constructed object should not be marked")
	}
	s.SetMarked(true)
	if !s.IsMarked() {
		t.Fatal("SetMarked(true) should stick")
	}
}

func TestHeaderNextChaining(t *testing.T) {
	a := object.NewString("a")
	b := object.NewString("b")
	a.SetNext(b)
	if a.Next() != value.Obj(b) {
		t.Fatal("Next() should return what SetNext stored")
	}
}

func TestHashStringDeterministic(t *testing.T) {
	if object.HashString("abc") != object.HashString("abc") {
		t.Fatal("HashString must be deterministic")
	}
	if object.HashString("abc") == object.HashString("abd") {
		t.Fatal("HashString collided for two different short strings (unlucky, but check the implementation)")
	}
}

func TestStringKeyEqualityIsContentBased(t *testing.T) {
	a := object.NewString("hello")
	b := object.NewString("hello")
	if a == b {
		t.Fatal("NewString does not intern; two calls should yield distinct pointers")
	}
	if !a.KeyEqual(b) {
		t.Fatal("KeyEqual should treat equal content as equal even across distinct pointers")
	}
}

func TestFindMethodOnClass(t *testing.T) {
	class := object.NewClass(object.NewString("Foo"))
	name := object.NewString("bar")
	fn := object.NewFunction(name)
	closure := object.NewClosure(fn)
	class.Methods.Set(name, value.ObjValue(closure))

	found, ok := class.FindMethod(name)
	if !ok || found != closure {
		t.Fatalf("FindMethod = %v, %v; want %v, true", found, ok, closure)
	}

	if _, ok := class.FindMethod(object.NewString("missing")); ok {
		t.Fatal("FindMethod should report false for an undefined method")
	}
}

func TestUpvalueCloseDetachesFromStack(t *testing.T) {
	slot := value.NumberValue(7)
	uv := object.NewUpvalue(3, &slot)
	if uv.Get().AsNumber() != 7 {
		t.Fatalf("Get() before close = %v, want 7", uv.Get())
	}

	slot = value.NumberValue(9)
	if uv.Get().AsNumber() != 9 {
		t.Fatal("open upvalue should see writes to its captured stack slot")
	}

	uv.Close()
	slot = value.NumberValue(100)
	if uv.Get().AsNumber() != 9 {
		t.Fatalf("closed upvalue should keep its copy; got %v", uv.Get())
	}
}

func TestBoundMethodCarriesReceiver(t *testing.T) {
	class := object.NewClass(object.NewString("Foo"))
	instance := object.NewInstance(class)
	fn := object.NewFunction(object.NewString("bar"))
	closure := object.NewClosure(fn)

	bound := object.NewBoundMethod(value.ObjValue(instance), closure)
	if bound.Method != closure {
		t.Fatal("BoundMethod should retain its Closure")
	}
	if bound.Receiver.AsObj() != instance {
		t.Fatal("BoundMethod should retain its receiver")
	}
}
