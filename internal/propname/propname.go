// Package propname implements the 6-bit-per-character name codec shared by
// node names and attribute keys in the binary prop format.
package propname

import (
	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
)

// alphabet is the fixed 64-element character set; index i encodes to
// alphabet[i] and decodes from the first index where alphabet[i] == c.
const alphabet = "0123456789:ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

var charIndex [256]int8

func init() {
	for i := range charIndex {
		charIndex[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		charIndex[alphabet[i]] = int8(i)
	}
}

// Decode reads a name from r: an 8-bit character count N, followed by
// ceil(6*N/8) bytes packing 6 bits per character per spec.md §4.2. Each
// quartet of characters (index i mod 4) draws from at most three bytes:
//
//	i%4=0: index = (byte0 >> 2) & 0x3F
//	i%4=1: index = ((byte0 & 0x03) << 4) | ((byte1 >> 4) & 0x0F)
//	i%4=2: index = ((byte1 & 0x0F) << 2) | ((byte2 >> 6) & 0x03)
//	i%4=3: index =   byte2 & 0x3F
func Decode(r *ioutil.Reader) (string, error) {
	nchars, err := r.ReadU8()
	if err != nil {
		return "", errs.Wrap(errs.KindShortRead, "read name length", err)
	}

	out := make([]byte, nchars)
	var b0, b1, b2 uint8

	for i := 0; i < int(nchars); i++ {
		var index uint8

		switch i % 4 {
		case 0:
			b0, err = r.ReadU8()
			if err != nil {
				return "", errs.Wrap(errs.KindShortRead, "read name bytes", err)
			}
			index = (b0 >> 2) & 0x3F
		case 1:
			b1, err = r.ReadU8()
			if err != nil {
				return "", errs.Wrap(errs.KindShortRead, "read name bytes", err)
			}
			index = ((b0 & 0x03) << 4) | ((b1 >> 4) & 0x0F)
		case 2:
			b2, err = r.ReadU8()
			if err != nil {
				return "", errs.Wrap(errs.KindShortRead, "read name bytes", err)
			}
			index = ((b1 & 0x0F) << 2) | ((b2 >> 6) & 0x03)
		case 3:
			index = b2 & 0x3F
		}

		out[i] = alphabet[index]
	}

	return string(out), nil
}

// Encode packs s into the on-wire name representation: an 8-bit character
// count followed by the 6-bit-per-character payload. Returns a Malformed
// error if s is longer than 255 characters or contains a character
// outside the 64-element alphabet.
func Encode(s string) ([]byte, error) {
	if len(s) > 255 {
		return nil, errs.New(errs.KindMalformed, "name longer than 255 characters")
	}

	indices := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		idx := charIndex[s[i]]
		if idx < 0 {
			return nil, errs.New(errs.KindMalformed, "name contains a character outside the 64-character alphabet")
		}
		indices[i] = uint8(idx)
	}

	nbytes := (6*len(s) + 7) / 8
	out := make([]byte, 1+nbytes)
	out[0] = uint8(len(s))

	for i, idx := range indices {
		byteOff := 1 + (6*i)/8
		switch i % 4 {
		case 0:
			out[byteOff] |= idx << 2
		case 1:
			out[byteOff] |= idx >> 4
			out[byteOff+1] |= (idx & 0x0F) << 4
		case 2:
			out[byteOff] |= idx >> 2
			out[byteOff+1] |= (idx & 0x03) << 6
		case 3:
			out[byteOff] |= idx
		}
	}

	return out, nil
}
