// Package prop implements the in-memory prop tree model: typed, named
// nodes with an insertion-ordered attribute map and an ordered child list.
package prop

import "fmt"

// Type is the closed, 8-bit prop type code. The high bit (0x40) marks an
// array variant, which is recognized and always rejected as unsupported.
type Type uint8

// The closed set of prop type codes this module understands.
const (
	Void Type = 0x01
	S8   Type = 0x02
	U8   Type = 0x03
	S16  Type = 0x04
	U16  Type = 0x05
	S32  Type = 0x06
	U32  Type = 0x07
	S64  Type = 0x08
	U64  Type = 0x09
	Bin  Type = 0x0A
	Str  Type = 0x0B
	IP4  Type = 0x0C
	Time Type = 0x0D
	T2U16 Type = 0x13
	T3S32 Type = 0x1E
	T4U16 Type = 0x27
	Bool Type = 0x34

	// AttrMarker is the pseudo-type used only as a child marker in the head
	// stream of the binary decoder; it is never a real node's Type.
	AttrMarker Type = 0x2E
	// ChildListEnd terminates a node's child list in the head stream.
	ChildListEnd Type = 0xFE
	// HeadEOF marks the end of the head stream.
	HeadEOF Type = 0xFF

	// ArrayFlag is set on the high bit of a type code to signal an array
	// variant, which this module rejects as unsupported.
	ArrayFlag Type = 0x40
)

var typeNames = map[Type]string{
	Void:  "void",
	S8:    "s8",
	U8:    "u8",
	S16:   "s16",
	U16:   "u16",
	S32:   "s32",
	U32:   "u32",
	S64:   "s64",
	U64:   "u64",
	Bin:   "bin",
	Str:   "str",
	IP4:   "ip4",
	Time:  "time",
	T2U16: "2u16",
	T3S32: "3s32",
	T4U16: "4u16",
	Bool:  "bool",
}

// fixedSize holds the payload size in bytes for every type with a fixed
// size. Types absent from this map are variable-size (Bin, Str).
var fixedSize = map[Type]int{
	Void:  0,
	S8:    1,
	U8:    1,
	S16:   2,
	U16:   2,
	S32:   4,
	U32:   4,
	S64:   8,
	U64:   8,
	IP4:   4,
	Time:  4,
	T2U16: 4,
	T3S32: 12,
	T4U16: 8,
	Bool:  1,
}

// IsArray reports whether the array-variant bit is set on a raw type code.
func IsArray(raw uint8) bool {
	return raw&uint8(ArrayFlag) != 0
}

// IsValid reports whether t is one of the closed, non-pseudo prop types
// (i.e. a type a Node may legitimately carry).
func IsValid(t Type) bool {
	_, ok := typeNames[t]
	return ok
}

// String returns the type's tag name, e.g. "u32". Panics if t is not a
// valid type; callers must gate with IsValid first, exactly as the C
// original's prop_type_to_string asserts validity rather than erroring.
func (t Type) String() string {
	name, ok := typeNames[t]
	if !ok {
		panic(fmt.Sprintf("prop: String() called on invalid type %#x", uint8(t)))
	}
	return name
}

// Size returns the fixed payload size for t, and false if t is variable
// size (Bin, Str) or the AttrMarker pseudo-type. Callers must gate with
// IsValid (or accept AttrMarker explicitly) before calling Size.
func Size(t Type) (int, bool) {
	n, ok := fixedSize[t]
	return n, ok
}

// IsFixedSize reports whether t has a fixed payload size.
func IsFixedSize(t Type) bool {
	_, ok := fixedSize[t]
	return ok
}
