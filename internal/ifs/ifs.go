// Package ifs reads the 573file IFS archive container: a fixed binary
// header, a table of contents encoded as a binary prop tree, and raw file
// bodies addressed by offset.
package ifs

import (
	"io"

	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
	"github.com/go573/binprop/internal/prop"
	"github.com/go573/binprop/internal/propbin"
)

const headerSize = 0x24
const headerWords = 9
const bodyStartWord = 4

// Archive is an opened IFS container. It holds the parsed table of
// contents and the offset at which file bodies begin; the underlying
// stream is owned by the caller.
type Archive struct {
	r          io.ReaderAt
	bodyStart  uint32
	root       *prop.Node
	archiveLen int64
}

// Open reads the fixed header and table of contents from r (which must
// span exactly size bytes) and requires the TOC root to be a directory.
func Open(r io.ReaderAt, size int64) (*Archive, error) {
	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, errs.Wrap(errs.KindIOError, "read ifs header", err)
	}

	hr := ioutil.NewReader(header)
	var words [headerWords]uint32
	for i := 0; i < headerWords; i++ {
		w, err := hr.ReadU32BE()
		if err != nil {
			return nil, errs.Wrap(errs.KindMalformed, "read ifs header word", err)
		}
		words[i] = w
	}

	bodyStart := words[bodyStartWord]
	if int64(bodyStart) < headerSize || int64(bodyStart) > size {
		return nil, errs.New(errs.KindMalformed, "ifs body_start out of range")
	}

	tocLen := int64(bodyStart) - headerSize
	toc := make([]byte, tocLen)
	if _, err := r.ReadAt(toc, headerSize); err != nil {
		return nil, errs.Wrap(errs.KindIOError, "read ifs toc", err)
	}

	root, err := propbin.Decode(toc)
	if err != nil {
		return nil, errs.Wrap(errs.KindMalformed, "decode ifs toc", err)
	}

	if !isDir(root) {
		return nil, errs.New(errs.KindMalformed, "ifs toc root is not a directory")
	}

	return &Archive{r: r, bodyStart: bodyStart, root: root, archiveLen: size}, nil
}

// Root returns the root directory entry of the archive.
func (a *Archive) Root() Dirent {
	return Dirent{node: a.root}
}

// TOC returns the archive's table of contents as a raw prop tree, for
// callers that want to render it directly (e.g. as XML) rather than walk
// it through the Dirent API.
func (a *Archive) TOC() *prop.Node {
	return a.root
}

// Lookup walks path components from the root, comparing each against the
// escaped name of a dirent's children.
func (a *Archive) Lookup(path string) (Dirent, bool) {
	return a.Root().lookup(path)
}

// ReadFile fetches the contents of a file dirent. A nil dst returns only
// the declared length as a probe; a dst shorter than the file's length
// fails with errs.NoSpace.
func (a *Archive) ReadFile(d Dirent, dst []byte) (int, error) {
	if d.node.Type() != prop.T3S32 {
		return 0, errs.New(errs.KindMalformed, "dirent is not a file")
	}

	statReader := ioutil.NewReader(d.node.Value())
	offset, err := statReader.ReadU32BE()
	if err != nil {
		return 0, errs.Wrap(errs.KindMalformed, "read file offset", err)
	}
	length, err := statReader.ReadU32BE()
	if err != nil {
		return 0, errs.Wrap(errs.KindMalformed, "read file length", err)
	}
	// timestamp follows but is unused here.

	abs := int64(a.bodyStart) + int64(offset)
	if abs+int64(length) > a.archiveLen {
		return 0, errs.New(errs.KindMalformed, "file range extends past end of archive")
	}

	if dst == nil {
		return int(length), nil
	}
	if uint32(len(dst)) < length {
		return 0, errs.NoSpace
	}

	if _, err := a.r.ReadAt(dst[:length], abs); err != nil {
		return 0, errs.Wrap(errs.KindIOError, "read ifs file body", err)
	}

	return int(length), nil
}

func isDir(n *prop.Node) bool {
	return n.Type() == prop.Void || n.Type() == prop.S32
}
