package lzss

import (
	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
)

// ReadFrame decodes an LZ file frame: a u32 BE orig_size, a u32 BE
// comp_size, and comp_size bytes of LZSS-compressed payload. It verifies
// the trailing buffer length against comp_size, decompresses once with a
// sizing cursor to check the result against orig_size, then decompresses
// again into an exactly-sized buffer.
func ReadFrame(src []byte) ([]byte, error) {
	r := ioutil.NewReader(src)

	origSize, err := r.ReadU32BE()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read orig_size", err)
	}

	compSize, err := r.ReadU32BE()
	if err != nil {
		return nil, errs.Wrap(errs.KindShortRead, "read comp_size", err)
	}

	payload := r.Bytes()
	if uint32(len(payload)) != compSize {
		return nil, errs.New(errs.KindMalformed, "lz frame comp_size does not match trailing buffer length")
	}

	sizing := ioutil.NewSizingWriter()
	if err := Decompress(payload, sizing); err != nil {
		return nil, err
	}
	if uint32(sizing.Pos()) != origSize {
		return nil, errs.New(errs.KindMalformed, "lz frame decompressed length does not match orig_size")
	}

	out := ioutil.NewWriter(make([]byte, origSize))
	if err := Decompress(payload, out); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
