// Package propxml renders a decoded prop tree as UTF-8 XML text, using a
// two-pass sizing-then-rendering discipline: the sizing pass determines
// the exact output length so the rendering pass never reallocates.
package propxml

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
	"github.com/go573/binprop/internal/prop"
)

// Write renders root's tree to XML and returns the resulting bytes. It
// runs the emitter twice: once against a sizing cursor to determine the
// total length, once into a buffer of exactly that size.
func Write(root *prop.Node) ([]byte, error) {
	sizing := ioutil.NewSizingWriter()
	if err := writeNode(sizing, root, 0); err != nil {
		return nil, err
	}

	out := ioutil.NewWriter(make([]byte, sizing.Pos()))
	if err := writeNode(out, root, 0); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func writeNode(w *ioutil.Writer, n *prop.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	w.WriteString(indent)

	if n.Type() == prop.Void {
		return writeVoidNode(w, n, depth)
	}
	return writeNonVoidNode(w, n, depth)
}

func writeVoidNode(w *ioutil.Writer, n *prop.Node, depth int) error {
	w.WriteString("<")
	w.WriteString(n.Name())
	if err := writeAttrs(w, n); err != nil {
		return err
	}

	if len(n.Children()) == 0 {
		w.WriteString("/>\n")
		return nil
	}

	w.WriteString(">\n")
	if err := writeChildren(w, n, depth); err != nil {
		return err
	}
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString("</")
	w.WriteString(n.Name())
	w.WriteString(">\n")
	return nil
}

func writeNonVoidNode(w *ioutil.Writer, n *prop.Node, depth int) error {
	w.WriteString("<")
	w.WriteString(n.Name())
	w.WriteString(` __type="`)
	w.WriteString(n.Type().String())
	w.WriteString(`"`)

	if len(n.Children()) > 0 {
		text, err := renderText(n)
		if err != nil {
			return err
		}
		w.WriteString(` __value="`)
		w.WriteString(escapeAttr(text))
		w.WriteString(`"`)
		if err := writeAttrs(w, n); err != nil {
			return err
		}
		w.WriteString(">\n")
		if err := writeChildren(w, n, depth); err != nil {
			return err
		}
		w.WriteString(strings.Repeat("  ", depth))
		w.WriteString("</")
		w.WriteString(n.Name())
		w.WriteString(">\n")
		return nil
	}

	if err := writeAttrs(w, n); err != nil {
		return err
	}
	w.WriteString(">")

	text, err := renderText(n)
	if err != nil {
		return err
	}
	w.WriteString(escapeText(text))

	w.WriteString("</")
	w.WriteString(n.Name())
	w.WriteString(">\n")
	return nil
}

func writeChildren(w *ioutil.Writer, n *prop.Node, depth int) error {
	for _, c := range n.Children() {
		if err := writeNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func writeAttrs(w *ioutil.Writer, n *prop.Node) error {
	for _, a := range n.Attrs() {
		w.WriteString(" ")
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(a.Value))
		w.WriteString(`"`)
	}
	return nil
}

// renderText renders a non-void node's payload as text, per spec.md §4.8's
// per-type rendering rules.
func renderText(n *prop.Node) (string, error) {
	v := n.Value()
	r := ioutil.NewReader(v)

	switch n.Type() {
	case prop.S8:
		b, _ := r.ReadU8()
		return strconv.FormatInt(int64(int8(b)), 10), nil
	case prop.S16:
		u, _ := r.ReadU16BE()
		return strconv.FormatInt(int64(int16(u)), 10), nil
	case prop.S32:
		u, _ := r.ReadU32BE()
		return strconv.FormatInt(int64(int32(u)), 10), nil
	case prop.S64:
		u, _ := r.ReadU64BE()
		return strconv.FormatInt(int64(u), 10), nil
	case prop.U8:
		b, _ := r.ReadU8()
		return strconv.FormatUint(uint64(b), 10), nil
	case prop.U16:
		u, _ := r.ReadU16BE()
		return strconv.FormatUint(uint64(u), 10), nil
	case prop.U32:
		u, _ := r.ReadU32BE()
		return strconv.FormatUint(uint64(u), 10), nil
	case prop.IP4:
		a, _ := r.ReadU8()
		b, _ := r.ReadU8()
		c, _ := r.ReadU8()
		d, _ := r.ReadU8()
		return strconv.Itoa(int(a)) + "." + strconv.Itoa(int(b)) + "." +
			strconv.Itoa(int(c)) + "." + strconv.Itoa(int(d)), nil
	case prop.U64:
		u, _ := r.ReadU64BE()
		return strconv.FormatUint(u, 10), nil
	case prop.Time:
		// Reuses the u32 reader: the wire payload is 4 bytes, not 8.
		u, _ := r.ReadU32BE()
		return strconv.FormatUint(uint64(u), 10), nil
	case prop.Bin:
		return hex.EncodeToString(v), nil
	case prop.Str:
		return n.ValueString(), nil
	case prop.Bool:
		b, _ := r.ReadU8()
		if b != 0 {
			return "1", nil
		}
		return "0", nil
	case prop.T2U16:
		a, _ := r.ReadU16BE()
		b, _ := r.ReadU16BE()
		return strconv.Itoa(int(a)) + "," + strconv.Itoa(int(b)), nil
	case prop.T3S32:
		a, _ := r.ReadU32BE()
		b, _ := r.ReadU32BE()
		c, _ := r.ReadU32BE()
		return strconv.Itoa(int(int32(a))) + "," + strconv.Itoa(int(int32(b))) + "," + strconv.Itoa(int(int32(c))), nil
	case prop.T4U16:
		a, _ := r.ReadU16BE()
		b, _ := r.ReadU16BE()
		c, _ := r.ReadU16BE()
		d, _ := r.ReadU16BE()
		return strconv.Itoa(int(a)) + "," + strconv.Itoa(int(b)) + "," + strconv.Itoa(int(c)) + "," + strconv.Itoa(int(d)), nil
	default:
		return "", errs.New(errs.KindUnsupportedType, "no text rendering for type "+n.Type().String())
	}
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	s = strings.ReplaceAll(s, "'", "&apos;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
