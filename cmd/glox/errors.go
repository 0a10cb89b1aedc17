package main

import (
	"errors"

	"github.com/kristofer/glox/pkg/vm"
)

// exit codes per spec §6.
const (
	exitOK           = 0
	exitUsage        = 64
	exitDataErr      = 65 // compile error
	exitSoftware     = 70 // runtime error
	exitIOErr        = 74
)

// ioError marks a failure reading/writing a file, distinct from a
// compile or runtime error, so main can select exit code 74.
type ioError struct{ err error }

func (e ioError) Error() string { return e.err.Error() }
func (e ioError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var io ioError
	if errors.As(err, &io) {
		return exitIOErr
	}
	var rt *vm.RuntimeError
	if errors.As(err, &rt) {
		return exitSoftware
	}
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	// Anything else reaching main is a compile-time diagnostic: the
	// compiler reports plain errors, not a dedicated type, since
	// spec §7 only requires its message text and exit code, not a
	// Go type callers branch on.
	return exitDataErr
}

var errUsage = errors.New("usage error")
