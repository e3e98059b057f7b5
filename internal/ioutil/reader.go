// Package ioutil provides the bounds-checked byte cursors every decoder in
// this module reads from and writes to: a read-only Reader over a fixed
// byte range, and a Writer that can either back a real buffer or run in
// sizing mode to measure output before allocating it.
package ioutil

import (
	"encoding/binary"

	"github.com/go573/binprop/internal/errs"
)

// Reader is a read-only cursor over a byte range. Every operation fails
// with errs.ShortRead if it would cross the end of the range.
type Reader struct {
	bytes []byte
	pos   int
}

// NewReader wraps bytes in a Reader starting at position 0.
func NewReader(bytes []byte) *Reader {
	return &Reader{bytes: bytes}
}

// Len returns the number of bytes remaining.
func (r *Reader) Len() int {
	return len(r.bytes) - r.pos
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) shortRead(context string) error {
	return errs.New(errs.KindShortRead, context)
}

// Read copies the next n bytes into a freshly allocated slice and advances
// the position by n.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.shortRead("read")
	}
	out := make([]byte, n)
	copy(out, r.bytes[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	if r.Len() < 1 {
		return 0, r.shortRead("read u8")
	}
	v := r.bytes[r.pos]
	r.pos++
	return v, nil
}

// ReadU16BE reads a big-endian 16-bit unsigned integer.
func (r *Reader) ReadU16BE() (uint16, error) {
	if r.Len() < 2 {
		return 0, r.shortRead("read u16be")
	}
	v := binary.BigEndian.Uint16(r.bytes[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32BE reads a big-endian 32-bit unsigned integer.
func (r *Reader) ReadU32BE() (uint32, error) {
	if r.Len() < 4 {
		return 0, r.shortRead("read u32be")
	}
	v := binary.BigEndian.Uint32(r.bytes[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64BE reads a big-endian 64-bit unsigned integer.
func (r *Reader) ReadU64BE() (uint64, error) {
	if r.Len() < 8 {
		return 0, r.shortRead("read u64be")
	}
	v := binary.BigEndian.Uint64(r.bytes[r.pos:])
	r.pos += 8
	return v, nil
}

// Align advances the position up to the next multiple of n, failing if
// doing so would pass the end of the range.
func (r *Reader) Align(n int) error {
	rem := r.pos % n
	if rem == 0 {
		return nil
	}
	skip := n - rem
	if skip > r.Len() {
		return r.shortRead("align")
	}
	r.pos += skip
	return nil
}

// Slice produces a new Reader over the next n bytes and advances the
// position by n. The returned Reader shares the underlying array.
func (r *Reader) Slice(n int) (*Reader, error) {
	if n < 0 || n > r.Len() {
		return nil, r.shortRead("slice")
	}
	sub := &Reader{bytes: r.bytes[r.pos : r.pos+n]}
	r.pos += n
	return sub, nil
}

// Bytes returns the full remaining byte range without copying or advancing.
func (r *Reader) Bytes() []byte {
	return r.bytes[r.pos:]
}
