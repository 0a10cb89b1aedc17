package object

import (
	"github.com/kristofer/glox/pkg/table"
	"github.com/kristofer/glox/pkg/value"
)

// String is an interned Lox string. Two Strings with the same Go string
// content are, after interning through a Table, the same *String pointer;
// equality on strings is therefore identity, matching spec §4.5's
// "the VM maintains a single canonical String object per distinct
// character sequence" contract.
type String struct {
	Header
	Chars string
	Hash  uint32
}

// HashString computes the FNV-1a hash spec §4.5 specifies for interning.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// NewString wraps chars without interning; callers that need interning
// semantics go through the VM/compiler's string table instead.
func NewString(chars string) *String {
	return &String{Chars: chars, Hash: HashString(chars)}
}

func (s *String) ObjType() value.ObjType { return value.ObjString }
func (s *String) String() string         { return s.Chars }

// HashKey and KeyEqual implement table.Key so Strings can key a Table
// directly (globals, class methods/fields, the VM's intern set).
func (s *String) HashKey() uint32 { return s.Hash }

func (s *String) KeyEqual(other table.Key) bool {
	o, ok := other.(*String)
	if !ok {
		return false
	}
	return s == o || (s.Hash == o.Hash && s.Chars == o.Chars)
}
