// Package binprop is the public facade over the 573file binary prop tree,
// IFS archive, LZ decompressor, texture interpreter, and XML emitter.
package binprop

import (
	"io"

	"github.com/go573/binprop/internal/ifs"
	"github.com/go573/binprop/internal/lzss"
	"github.com/go573/binprop/internal/prop"
	"github.com/go573/binprop/internal/propbin"
	"github.com/go573/binprop/internal/texture"
	"github.com/go573/binprop/propxml"
)

// Node is a decoded binary prop tree node.
type Node = prop.Node

// DecodeProp decodes a full binary prop stream and returns its root node.
func DecodeProp(data []byte) (*Node, error) {
	return propbin.Decode(data)
}

// WriteXML renders root as UTF-8 XML, per the two-pass sizing discipline.
func WriteXML(root *Node) ([]byte, error) {
	return propxml.Write(root)
}

// DecompressFrame decodes one LZ file frame (orig_size, comp_size, payload).
func DecompressFrame(lzFramed []byte) ([]byte, error) {
	return lzss.ReadFrame(lzFramed)
}

// Archive is an opened IFS archive.
type Archive struct {
	a *ifs.Archive
}

// Dirent is an entry (directory or file) in an archive's table of contents.
type Dirent = ifs.Dirent

// OpenArchive parses the IFS header and table of contents from r, which
// must span exactly size bytes.
func OpenArchive(r io.ReaderAt, size int64) (*Archive, error) {
	a, err := ifs.Open(r, size)
	if err != nil {
		return nil, err
	}
	return &Archive{a: a}, nil
}

// Root returns the archive's root directory entry.
func (a *Archive) Root() Dirent { return a.a.Root() }

// Lookup walks a slash-separated path from the root.
func (a *Archive) Lookup(path string) (Dirent, bool) { return a.a.Lookup(path) }

// ReadFile fetches a file dirent's contents. A nil dst returns only the
// declared length as a probe.
func (a *Archive) ReadFile(d Dirent, dst []byte) (int, error) { return a.a.ReadFile(d, dst) }

// TOC returns the archive's table of contents as a raw prop tree.
func (a *Archive) TOC() *Node { return a.a.TOC() }

// TextureList is a fully parsed "texturelist" prop node.
type TextureList = texture.List

// Image is one named sub-rectangle of a texture atlas.
type Image = texture.Image

// DecodeTextureList parses root (a "texturelist" node) into a TextureList.
func DecodeTextureList(root *Node) (*TextureList, error) {
	return texture.ReadList(root)
}

// DecodeTexture decompresses an image's LZ-framed blob into BGRA pixels.
func DecodeTexture(img *Image, lzFramed []byte) ([]byte, error) {
	return texture.Decode(img, lzFramed)
}
