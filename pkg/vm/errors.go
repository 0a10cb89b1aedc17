package vm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CallFrame is the public, read-only projection of a frame used to render
// a stack trace — renamed from the teacher's pkg/vm/errors.go StackFrame
// (selector-based Smalltalk sends) to carry a Lox call frame's identity
// instead (function name + source line).
type CallFrame struct {
	Name string
	Line int
}

// RuntimeError is a Lox runtime failure: a message plus the call stack at
// the point of failure, rendered innermost-frame-first the way
// original_source's vm.c's runtimeError does (spec §7).
type RuntimeError struct {
	Message string
	Stack   []CallFrame
	cause   error
}

func newRuntimeError(cause error, stack []CallFrame) *RuntimeError {
	return &RuntimeError{Message: cause.Error(), Stack: stack, cause: cause}
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.Stack) - 1; i >= 0; i-- {
		f := e.Stack[i]
		fmt.Fprintf(&b, "\n[line %d] in %s", f.Line, f.Name)
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error { return e.cause }

func wrapf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}
