package prop

import (
	"github.com/go573/binprop/internal/errs"
)

// Node is a typed, named tree node: a tag, a validated payload, an
// insertion-ordered attribute map, and an ordered list of children. A Node
// is appended to exactly one parent over its lifetime; freeing the root
// (letting it become unreachable) frees the whole tree, since Go's
// collector already resolves the ownership question the C original solves
// with manual containerof/list bookkeeping.
type Node struct {
	name     string
	typ      Type
	value    []byte
	attrs    attrList
	children []*Node
	parent   *Node
}

// New creates a node with the given name, type and payload. It validates
// the payload exactly as spec.md §4.3 requires: type must be in the closed
// set and must not carry the array flag; payload length must match the
// fixed size for fixed-size types; for Str, the payload must be non-empty
// and NUL-terminated at the last byte.
func New(name string, typ Type, value []byte) (*Node, error) {
	if err := validate(name, typ, value); err != nil {
		return nil, err
	}
	n := &Node{name: name, typ: typ, value: value}
	return n, nil
}

func validate(name string, typ Type, value []byte) error {
	if IsArray(uint8(typ)) {
		return errs.New(errs.KindUnsupportedType, "\""+name+"\": arrays are not supported")
	}
	if !IsValid(typ) {
		return errs.New(errs.KindUnsupportedType, "\""+name+"\": unsupported type code")
	}
	if size, ok := Size(typ); ok && len(value) != size {
		return errs.New(errs.KindMalformed, "\""+name+"\": incorrect payload size for type "+typ.String())
	}
	if typ == Str {
		if len(value) == 0 {
			return errs.New(errs.KindMalformed, "\""+name+"\": string node has zero length")
		}
		if value[len(value)-1] != 0 {
			return errs.New(errs.KindMalformed, "\""+name+"\": string node is not NUL terminated")
		}
	}
	return nil
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Type returns the node's type tag.
func (n *Node) Type() Type { return n.typ }

// Value returns the node's raw payload bytes. Callers must not mutate the
// returned slice; it is the same backing array the node owns.
func (n *Node) Value() []byte { return n.value }

// ValueString returns the node's Str payload with the trailing NUL
// stripped. Panics if the node is not of type Str.
func (n *Node) ValueString() string {
	if n.typ != Str {
		panic("prop: ValueString called on a non-Str node")
	}
	return string(n.value[:len(n.value)-1])
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order. Callers must
// not mutate the returned slice.
func (n *Node) Children() []*Node { return n.children }

// Append attaches child to n, taking ownership. child must not already
// have a parent.
func (n *Node) Append(child *Node) {
	if child.parent != nil {
		panic("prop: Append called on a node that already has a parent")
	}
	n.children = append(n.children, child)
	child.parent = n
}

// Search returns the first child named name, or nil if none matches.
func (n *Node) Search(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// SetAttr inserts (key, val) if key is absent, or replaces the value in
// place if key is already present, preserving its original insertion
// position.
func (n *Node) SetAttr(key, val string) {
	n.attrs.set(key, val)
}

// Attr looks up an attribute by key, returning (value, true) if present.
func (n *Node) Attr(key string) (string, bool) {
	return n.attrs.get(key)
}

// Attrs returns the node's attributes in insertion order. Callers must not
// mutate the returned slice.
func (n *Node) Attrs() []Attr {
	return n.attrs.all()
}
