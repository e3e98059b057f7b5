// Package texture interprets a decoded prop tree rooted at "texturelist"
// into texture and image descriptors, and materializes an image's pixels
// from its LZ-framed blob.
package texture

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/ioutil"
	"github.com/go573/binprop/internal/lzss"
	"github.com/go573/binprop/internal/prop"
)

// Rect is a 4u16-encoded corner pair, decoded as (p1.x, p2.x, p1.y, p2.y).
type Rect struct {
	P1X, P2X uint16
	P1Y, P2Y uint16
}

// Size is a 2u16-encoded texture atlas size.
type Size struct {
	Width, Height uint16
}

// Image is one named sub-rectangle of a texture atlas.
type Image struct {
	Name    string
	NameMD5 string
	UVRect  Rect
	ImgRect Rect
}

// Texture is one texture sheet within a texture list.
type Texture struct {
	Format string
	Size   Size
	Images []*Image
}

// List is a fully parsed "texturelist" prop node.
type List struct {
	Textures []*Texture
}

// ReadList parses root (which must be named "texturelist" and carry a
// compress="avslz" attribute) into a List of textures and images.
func ReadList(root *prop.Node) (*List, error) {
	if root.Name() != "texturelist" {
		return nil, errs.New(errs.KindMalformed, "expected texturelist node")
	}

	compress, ok := root.Attr("compress")
	if !ok || compress != "avslz" {
		return nil, errs.UnsupportedCompression
	}

	list := &List{}
	for _, child := range root.Children() {
		tx, err := readTexture(child)
		if err != nil {
			return nil, err
		}
		list.Textures = append(list.Textures, tx)
	}

	return list, nil
}

func readTexture(p *prop.Node) (*Texture, error) {
	if p.Name() != "texture" {
		return nil, errs.New(errs.KindMalformed, "expected texture node")
	}

	format, ok := p.Attr("format")
	if !ok {
		return nil, errs.New(errs.KindMalformed, "texture has no format attr")
	}

	tx := &Texture{Format: format}
	gotSize := false

	for _, child := range p.Children() {
		if child.Name() == "size" {
			size, err := readSize(child)
			if err != nil {
				return nil, err
			}
			tx.Size = size
			gotSize = true
			continue
		}

		img, err := readImage(child)
		if err != nil {
			return nil, err
		}
		tx.Images = append(tx.Images, img)
	}

	if !gotSize {
		return nil, errs.New(errs.KindMalformed, "texture has no size node")
	}

	return tx, nil
}

func readSize(p *prop.Node) (Size, error) {
	if p.Type() != prop.T2U16 {
		return Size{}, errs.New(errs.KindMalformed, "size node is not 2u16")
	}

	r := ioutil.NewReader(p.Value())
	width, err := r.ReadU16BE()
	if err != nil {
		return Size{}, errs.Wrap(errs.KindMalformed, "read size width", err)
	}
	height, err := r.ReadU16BE()
	if err != nil {
		return Size{}, errs.Wrap(errs.KindMalformed, "read size height", err)
	}

	return Size{Width: width, Height: height}, nil
}

func readImage(p *prop.Node) (*Image, error) {
	if p.Name() != "image" {
		return nil, errs.New(errs.KindMalformed, "expected image node")
	}

	name, ok := p.Attr("name")
	if !ok {
		return nil, errs.New(errs.KindMalformed, "image has no name attr")
	}

	sum := md5.Sum([]byte(name))

	uvrect, err := readRect(p, "uvrect")
	if err != nil {
		return nil, err
	}
	imgrect, err := readRect(p, "imgrect")
	if err != nil {
		return nil, err
	}

	return &Image{
		Name:    name,
		NameMD5: hex.EncodeToString(sum[:]),
		UVRect:  uvrect,
		ImgRect: imgrect,
	}, nil
}

func readRect(p *prop.Node, childName string) (Rect, error) {
	child := p.Search(childName)
	if child == nil {
		return Rect{}, errs.New(errs.KindMalformed, "\""+childName+"\": child not found")
	}
	if child.Type() != prop.T4U16 {
		return Rect{}, errs.New(errs.KindMalformed, "\""+childName+"\": expected 4u16")
	}

	r := ioutil.NewReader(child.Value())
	var vals [4]uint16
	for i := range vals {
		v, err := r.ReadU16BE()
		if err != nil {
			return Rect{}, errs.Wrap(errs.KindMalformed, "\""+childName+"\": read rect value", err)
		}
		vals[i] = v
	}

	rect := Rect{P1X: vals[0], P2X: vals[1], P1Y: vals[2], P2Y: vals[3]}
	if rect.P1X > rect.P2X {
		return Rect{}, errs.New(errs.KindMalformed, "\""+childName+"\": p1.x > p2.x")
	}
	if rect.P1Y > rect.P2Y {
		return Rect{}, errs.New(errs.KindMalformed, "\""+childName+"\": p1.y > p2.y")
	}

	return rect, nil
}

// Decode decompresses lzFramed (an LZ file frame per internal/lzss) and
// returns the image's pixels as a BGRA grid. The pixel dimensions are
// half of imgrect's extent, per an undocumented but empirically required
// scaling the original format applies.
func Decode(img *Image, lzFramed []byte) ([]byte, error) {
	pixels, err := lzss.ReadFrame(lzFramed)
	if err != nil {
		return nil, err
	}

	width := int(img.ImgRect.P2X-img.ImgRect.P1X) / 2
	height := int(img.ImgRect.P2Y-img.ImgRect.P1Y) / 2
	expected := width * height * 4

	if len(pixels) != expected {
		return nil, errs.New(errs.KindMalformed, "decompressed pixel byte count mismatch")
	}

	return pixels, nil
}

// Width and Height of the materialized pixel grid for img, per the
// halving rule Decode enforces.
func (img *Image) Width() int  { return int(img.ImgRect.P2X-img.ImgRect.P1X) / 2 }
func (img *Image) Height() int { return int(img.ImgRect.P2Y-img.ImgRect.P1Y) / 2 }
