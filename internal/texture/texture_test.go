package texture

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/prop"
)

func mustNode(t *testing.T, name string, typ prop.Type, value []byte) *prop.Node {
	t.Helper()
	n, err := prop.New(name, typ, value)
	require.NoError(t, err)
	return n
}

func u16be(vals ...uint16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(out[2*i:], v)
	}
	return out
}

func buildTextureList(t *testing.T, imgName string, imgrect [4]uint16) *prop.Node {
	t.Helper()

	root := mustNode(t, "texturelist", prop.Void, nil)
	root.SetAttr("compress", "avslz")

	tx := mustNode(t, "texture", prop.Void, nil)
	tx.SetAttr("format", "argb8888")
	root.Append(tx)

	size := mustNode(t, "size", prop.T2U16, u16be(64, 64))
	tx.Append(size)

	img := mustNode(t, "image", prop.Void, nil)
	img.SetAttr("name", imgName)
	tx.Append(img)

	uvrect := mustNode(t, "uvrect", prop.T4U16, u16be(0, 16, 0, 16))
	img.Append(uvrect)

	imgrectNode := mustNode(t, "imgrect", prop.T4U16, u16be(imgrect[0], imgrect[1], imgrect[2], imgrect[3]))
	img.Append(imgrectNode)

	return root
}

func TestReadListAndImageMetadata(t *testing.T) {
	root := buildTextureList(t, "hud/button", [4]uint16{0, 32, 0, 16})

	list, err := ReadList(root)
	require.NoError(t, err)
	require.Len(t, list.Textures, 1)

	tx := list.Textures[0]
	require.Equal(t, "argb8888", tx.Format)
	require.Equal(t, Size{Width: 64, Height: 64}, tx.Size)
	require.Len(t, tx.Images, 1)

	img := tx.Images[0]
	require.Equal(t, "hud/button", img.Name)

	sum := md5.Sum([]byte("hud/button"))
	require.Equal(t, hex.EncodeToString(sum[:]), img.NameMD5)
}

func TestReadListRejectsWrongCompression(t *testing.T) {
	root := mustNode(t, "texturelist", prop.Void, nil)
	root.SetAttr("compress", "zlib")

	_, err := ReadList(root)
	require.ErrorIs(t, err, errs.UnsupportedCompression)
}

// encodeAllLiteral builds an LZSS stream (per internal/lzss) that emits
// data byte-for-byte as literals, terminated by the zero-offset backref
// EOF marker. len(data) must be a multiple of 8.
func encodeAllLiteral(t *testing.T, data []byte) []byte {
	t.Helper()
	require.Equal(t, 0, len(data)%8, "test fixture must be a multiple of 8 bytes")

	var out []byte
	for i := 0; i < len(data); i += 8 {
		out = append(out, 0xFF) // all 8 tokens in this group are literal
		out = append(out, data[i:i+8]...)
	}
	out = append(out, 0x00, 0x00, 0x00) // reload flags (all-backref), then EOF backref
	return out
}

func TestDecodeHalvingRule(t *testing.T) {
	root := buildTextureList(t, "hud/button", [4]uint16{0, 32, 0, 16})
	list, err := ReadList(root)
	require.NoError(t, err)

	img := list.Textures[0].Images[0]
	require.Equal(t, 16, img.Width())
	require.Equal(t, 8, img.Height())

	pixels := make([]byte, 16*8*4) // 128 pixels * 4 bytes/pixel (BGRA) = 512 bytes
	for i := range pixels {
		pixels[i] = byte(i)
	}
	compressed := encodeAllLiteral(t, pixels)

	var frame []byte
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(pixels)))
	frame = append(frame, sizeBuf[:]...)
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(compressed)))
	frame = append(frame, sizeBuf[:]...)
	frame = append(frame, compressed...)

	out, err := Decode(img, frame)
	require.NoError(t, err)
	require.Equal(t, pixels, out)
}

func TestDecodeRejectsSizeMismatch(t *testing.T) {
	img := &Image{ImgRect: Rect{P1X: 0, P2X: 32, P1Y: 0, P2Y: 16}}

	wrongPixels := make([]byte, 8)
	compressed := encodeAllLiteral(t, wrongPixels)

	var frame []byte
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(wrongPixels)))
	frame = append(frame, sizeBuf[:]...)
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(compressed)))
	frame = append(frame, sizeBuf[:]...)
	frame = append(frame, compressed...)

	_, err := Decode(img, frame)
	require.Error(t, err) // 8 decompressed bytes, but 512 expected for a 16x8 BGRA image
}
