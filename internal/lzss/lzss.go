// Package lzss implements the ring-buffer LZSS-family decoder used to
// compress texture blobs and other 573file payloads.
package lzss

import (
	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
)

const ringSize = 4096

// Decompress drives the ring-buffer state machine described by
// spec.md §4.6 over src, writing the decoded byte stream to dst. dst may be
// a sizing cursor (to determine the output length) or a backed one (to
// materialize it); the decoder behaves identically either way.
func Decompress(src []byte, dst *ioutil.Writer) error {
	r := ioutil.NewReader(src)

	var ring [ringSize]byte
	ringPos := 0
	flags := uint16(0x0001)
	copyPos, copyLen := 0, 0

	emit := func(b byte) {
		dst.WriteByte(b)
		ring[ringPos] = b
		ringPos = (ringPos + 1) % ringSize
	}

	for {
		if copyLen > 0 {
			emit(ring[copyPos])
			copyPos = (copyPos + 1) % ringSize
			copyLen--
			continue
		}

		if flags == 0x0001 {
			b, err := r.ReadU8()
			if err != nil {
				return nil // clean EOF: input exhausted between tokens
			}
			flags = 0x0100 | uint16(b)
		}

		flag := flags & 1
		flags >>= 1

		if flag == 1 {
			b, err := r.ReadU8()
			if err != nil {
				return nil
			}
			emit(b)
			continue
		}

		hi, err := r.ReadU8()
		if err != nil {
			return errs.Wrap(errs.KindShortRead, "read backreference high byte", err)
		}
		lo, err := r.ReadU8()
		if err != nil {
			return errs.Wrap(errs.KindShortRead, "read backreference low byte", err)
		}

		copyOff := (int(hi) << 4) | (int(lo) >> 4)
		if copyOff == 0 {
			return nil // zero-offset backreference is the EOF marker
		}

		copyLen = int(lo&0x0F) + 3
		copyPos = ((ringPos - copyOff) % ringSize + ringSize) % ringSize

		emit(ring[copyPos])
		copyPos = (copyPos + 1) % ringSize
		copyLen--
	}
}
