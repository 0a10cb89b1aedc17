package vm

import "github.com/kristofer/glox/pkg/object"

// frame is one call frame: the closure being executed, its instruction
// pointer, and the base stack slot its locals start at (spec §4.4).
type frame struct {
	closure   *object.Closure
	ip        int
	slotsBase int
}

const framesMax = 64
