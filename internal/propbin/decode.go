// Package propbin decodes the binary prop stream format: a split head/body
// layout driven by one-byte type codes, with 6-bit-packed names and an
// "alignment cave" allocator for payloads smaller than 4 bytes.
package propbin

import (
	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
	"github.com/go573/binprop/internal/prop"
	"github.com/go573/binprop/internal/propname"
)

// Decode parses a full binary prop stream (magic, head, padding, body) and
// returns the root node of the decoded tree.
func Decode(data []byte) (*prop.Node, error) {
	file := ioutil.NewReader(data)

	if _, err := file.Read(4); err != nil { // magic, consumed but not validated
		return nil, errs.Wrap(errs.KindShortRead, "read magic", err)
	}

	headLen, err := file.ReadU32BE()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read head length", err)
	}

	head, err := file.Slice(int(headLen))
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "slice head", err)
	}

	if err := file.Align(4); err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "align before body length", err)
	}

	bodyLen, err := file.ReadU32BE()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read body length", err)
	}

	body, err := file.Slice(int(bodyLen))
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "slice body", err)
	}

	d := &decoder{head: head, body: body}

	typ, err := head.ReadU8()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read root type code", err)
	}

	if prop.Type(typ) == prop.HeadEOF {
		return nil, errs.New(errs.KindMalformed, "binary prop has no root node")
	}

	root, err := d.readNode(typ)
	if err != nil {
		return nil, err
	}

	eof, err := head.ReadU8()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read trailing EOF marker", err)
	}
	if prop.Type(eof) != prop.HeadEOF {
		return nil, errs.New(errs.KindMalformed, "expected EOF marker after root node")
	}

	return root, nil
}

// decoder holds the parser's live state: the head and body cursors, and the
// two independent alignment caves for 1- and 2-byte values.
type decoder struct {
	head *ioutil.Reader
	body *ioutil.Reader
	cave [3]*ioutil.Reader // indexed by value width: index 1 is the 1-byte cave, index 2 the 2-byte cave; index 0 unused
}

// readNode decodes one node (given its already-consumed type byte) and its
// full subtree: value, attributes, and children, terminated by 0xFE.
func (d *decoder) readNode(rawType uint8) (*prop.Node, error) {
	if prop.IsArray(rawType) {
		return nil, errs.New(errs.KindUnsupportedType, "array-variant type codes are not supported")
	}

	typ := prop.Type(rawType)
	if !prop.IsValid(typ) {
		return nil, errs.New(errs.KindUnsupportedType, "unsupported type code")
	}

	name, err := propname.Decode(d.head)
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read node name", err)
	}

	value, err := d.sliceValue(typ)
	if err != nil {
		return nil, errs.Wrap(errs.KindMalformed, "\""+name+"\": read value", err)
	}

	node, err := prop.New(name, typ, value)
	if err != nil {
		return nil, err
	}

	for {
		childType, err := d.head.ReadU8()
		if err != nil {
			return nil, errs.Wrap(errs.KindShortRead, "\""+name+"\": read next child type code", err)
		}

		switch prop.Type(childType) {
		case prop.ChildListEnd:
			return node, nil
		case prop.AttrMarker:
			if err := d.readAttr(node); err != nil {
				return nil, err
			}
		default:
			child, err := d.readNode(childType)
			if err != nil {
				return nil, err
			}
			node.Append(child)
		}
	}
}

// readAttr decodes an attribute subrecord (following the already-consumed
// 0x2E marker) and attaches it to node.
func (d *decoder) readAttr(node *prop.Node) error {
	name, err := propname.Decode(d.head)
	if err != nil {
		return errs.Wrap(errs.KindShortRead, "read attr name", err)
	}

	value, err := d.sliceValue(prop.AttrMarker)
	if err != nil {
		return errs.Wrap(errs.KindMalformed, "@"+name+": read value", err)
	}

	if len(value) == 0 {
		return errs.New(errs.KindMalformed, "attr @"+name+" has zero length")
	}
	if value[len(value)-1] != 0 {
		return errs.New(errs.KindMalformed, "attr @"+name+" is not NUL terminated")
	}

	node.SetAttr(name, string(value[:len(value)-1]))
	return nil
}

// sliceValue implements spec.md §4.4's "Value slicing from BODY": align to
// 4 bytes, determine the payload length (fixed for fixed-size types, or a
// u32 BE prefix for variable-size types and the AttrMarker pseudo-type), then
// slice it either directly from BODY (variable-size, or N >= 4) or from a
// 4-byte alignment cave (N in {1, 2}).
func (d *decoder) sliceValue(typ prop.Type) ([]byte, error) {
	if err := d.body.Align(4); err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "align body", err)
	}

	var n int
	isVariable := !prop.IsFixedSize(typ)

	if isVariable {
		u32, err := d.body.ReadU32BE()
		if err != nil {
			return nil, errs.Wrap(errs.KindShortRead, "read variable value length", err)
		}
		n = int(u32)
	} else {
		size, _ := prop.Size(typ)
		n = size
	}

	switch {
	case isVariable || n >= 4:
		return d.bodySliceBytes(n)
	case n > 0:
		return d.bodySliceCave(n)
	default:
		return nil, nil
	}
}

func (d *decoder) bodySliceBytes(n int) ([]byte, error) {
	sub, err := d.body.Slice(n)
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "slice body bytes", err)
	}
	return sub.Read(n)
}

// bodySliceCave draws n (1 or 2) bytes from the alignment cave for that
// width, refilling it from a fresh 4-byte window of BODY when empty. This
// lets consecutive small fields from independent nodes share a single
// 4-byte aligned slot of BODY instead of each claiming a whole word.
func (d *decoder) bodySliceCave(n int) ([]byte, error) {
	cave := d.cave[n]
	if cave == nil || cave.Len() == 0 {
		fresh, err := d.body.Slice(4)
		if err != nil {
			return nil, errs.Wrap(errs.KindShortRead, "refill alignment cave", err)
		}
		cave = fresh
		d.cave[n] = cave
	}
	return cave.Read(n)
}
