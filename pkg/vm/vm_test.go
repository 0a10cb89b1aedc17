package vm_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/kristofer/glox/pkg/vm"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	v := vm.New()
	var out bytes.Buffer
	v.Stdout = &out
	err := v.Interpret(source)
	return out.String(), err
}

func mustRun(t *testing.T, source string) string {
	t.Helper()
	out, err := run(t, source)
	if err != nil {
		t.Fatalf("Interpret(%q) returned error: %v", source, err)
	}
	return out
}

func TestArithmeticAndPrecedence(t *testing.T) {
	out := mustRun(t, `print 1 + 2 * 3;`)
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("got %q, want 7", out)
	}
}

func TestStringConcatenation(t *testing.T) {
	out := mustRun(t, `print "foo" + "bar";`)
	if strings.TrimSpace(out) != "foobar" {
		t.Fatalf("got %q, want foobar", out)
	}
}

func TestGlobalAndLocalVariables(t *testing.T) {
	out := mustRun(t, `
var a = 10;
{
  var b = 20;
  print a + b;
}
`)
	if strings.TrimSpace(out) != "30" {
		t.Fatalf("got %q, want 30", out)
	}
}

func TestControlFlow(t *testing.T) {
	out := mustRun(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  sum = sum + i;
  i = i + 1;
}
print sum;
`)
	if strings.TrimSpace(out) != "10" {
		t.Fatalf("got %q, want 10", out)
	}
}

func TestClosureCapturesByReference(t *testing.T) {
	out := mustRun(t, `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();
print counter();
print counter();
print counter();
`)
	got := strings.Fields(out)
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("got %v lines, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestClassesInstancesAndMethods(t *testing.T) {
	out := mustRun(t, `
class Counter {
  init() {
    this.value = 0;
  }
  increment() {
    this.value = this.value + 1;
    return this.value;
  }
}
var c = Counter();
c.increment();
print c.increment();
`)
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("got %q, want 2", out)
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	out := mustRun(t, `
class Animal {
  speak() {
    print "...";
  }
}
class Dog < Animal {
  speak() {
    super.speak();
    print "Woof";
  }
}
Dog().speak();
`)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "..." || lines[1] != "Woof" {
		t.Fatalf("got %v, want [... Woof]", lines)
	}
}

func TestBoundMethodAsFirstClassValue(t *testing.T) {
	out := mustRun(t, `
class Greeter {
  hello() { print "hi"; }
}
var g = Greeter();
var fn = g.hello;
fn();
`)
	if strings.TrimSpace(out) != "hi" {
		t.Fatalf("got %q, want hi", out)
	}
}

func TestRuntimeErrorIncludesStackTrace(t *testing.T) {
	_, err := run(t, `
fun a() { return 1 + nil; }
fun b() { return a(); }
b();
`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "a()") || !strings.Contains(msg, "b()") {
		t.Errorf("expected stack trace naming a() and b(), got: %s", msg)
	}
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	if err == nil {
		t.Fatal("expected a runtime error for an undefined global")
	}
}

func TestDeterminismAcrossRepeatedRuns(t *testing.T) {
	source := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(12);
`
	first := mustRun(t, source)
	second := mustRun(t, source)
	require.Equal(t, first, second, "repeated interpretation of the same source must be deterministic")
}

// TestIndependentVMsAreSafeConcurrently runs several separate VM instances
// in parallel goroutines, each interpreting different source computing a
// distinct expected value. Nothing in the VM is shared across instances
// (each owns its own stack array, globals/strings tables, and collector),
// so this is a property of independent state rather than of any locking —
// there is no cross-VM synchronization to test, only that one VM's run
// doesn't corrupt another's.
func TestIndependentVMsAreSafeConcurrently(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		n := i
		g.Go(func() error {
			source := fmt.Sprintf(`
fun square(x) { return x * x; }
print square(%d);
`, n)
			v := vm.New()
			var out bytes.Buffer
			v.Stdout = &out
			if err := v.Interpret(source); err != nil {
				return err
			}
			want := fmt.Sprintf("%d", n*n)
			if strings.TrimSpace(out.String()) != want {
				return fmt.Errorf("vm %d: got %q, want %q", n, out.String(), want)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestPersistentGlobalsAcrossInterpretCalls(t *testing.T) {
	v := vm.New()
	var out bytes.Buffer
	v.Stdout = &out

	if err := v.Interpret(`var x = 41;`); err != nil {
		t.Fatalf("first Interpret: %v", err)
	}
	if err := v.Interpret(`print x + 1;`); err != nil {
		t.Fatalf("second Interpret: %v", err)
	}
	if strings.TrimSpace(out.String()) != "42" {
		t.Fatalf("got %q, want 42 (globals should persist across Interpret calls)", out.String())
	}
}

func TestStressGCDoesNotCorruptState(t *testing.T) {
	v := vm.New()
	v.Collector().SetStressMode(true)
	var out bytes.Buffer
	v.Stdout = &out

	err := v.Interpret(`
fun make(n) {
  var s = "x";
  var i = 0;
  while (i < n) {
    s = s + "x";
    i = i + 1;
  }
  return s;
}
print make(50);
`)
	if err != nil {
		t.Fatalf("unexpected error under stress GC: %v", err)
	}
	want := strings.Repeat("x", 51)
	if strings.TrimSpace(out.String()) != want {
		t.Fatalf("got %q, want %d x's", out.String(), len(want))
	}
}
