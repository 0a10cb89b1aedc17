package object

import (
	"github.com/kristofer/glox/pkg/chunk"
	"github.com/kristofer/glox/pkg/value"
)

func init() {
	// Wires pkg/chunk's Decode path back to string construction without
	// chunk importing this package (see encode.go's comment: the
	// dependency must run object -> chunk, not the reverse, because
	// Function embeds a *chunk.Chunk).
	chunk.NewStringValue = func(s string) value.Value {
		return value.ObjValue(NewString(s))
	}
}
