package ifs

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go573/binprop/internal/errs"
	"github.com/go573/binprop/internal/propname"
)

func encName(t *testing.T, s string) []byte {
	t.Helper()
	b, err := propname.Encode(s)
	require.NoError(t, err)
	return b
}

// buildArchive assembles a minimal IFS archive: a 9-word BE header (word 4
// is body_start), a binary-prop TOC, and a file body appended after it.
func buildArchive(t *testing.T, fileOffset, fileLen uint32, fileBody []byte) []byte {
	t.Helper()

	var head bytes.Buffer
	head.WriteByte(0x01) // root: void (directory)
	head.Write(encName(t, ""))

	head.WriteByte(0x01) // _info_: void, skipped as first child
	head.Write(encName(t, "_info_"))
	head.WriteByte(0xFE)

	head.WriteByte(0x01) // directory dirent with an escaped name
	head.Write(encName(t, "abc_Edef_Xghi"))
	head.WriteByte(0xFE)

	head.WriteByte(0x1E) // file1: 3s32
	head.Write(encName(t, "file1"))
	head.WriteByte(0xFE)

	head.WriteByte(0xFE) // root's child list ends
	head.WriteByte(0xFF) // head EOF

	var body bytes.Buffer
	var statWord [4]byte
	binary.BigEndian.PutUint32(statWord[:], fileOffset)
	body.Write(statWord[:])
	binary.BigEndian.PutUint32(statWord[:], fileLen)
	body.Write(statWord[:])
	binary.BigEndian.PutUint32(statWord[:], 0x12345678) // timestamp
	body.Write(statWord[:])

	var toc bytes.Buffer
	toc.WriteString("PROP")
	var headLen [4]byte
	binary.BigEndian.PutUint32(headLen[:], uint32(head.Len()))
	toc.Write(headLen[:])
	toc.Write(head.Bytes())
	for toc.Len()%4 != 0 {
		toc.WriteByte(0)
	}
	var bodyLenBuf [4]byte
	binary.BigEndian.PutUint32(bodyLenBuf[:], uint32(body.Len()))
	toc.Write(bodyLenBuf[:])
	toc.Write(body.Bytes())

	var archive bytes.Buffer
	var words [9]uint32
	words[4] = headerSize + uint32(toc.Len())
	for _, w := range words {
		var wb [4]byte
		binary.BigEndian.PutUint32(wb[:], w)
		archive.Write(wb[:])
	}
	archive.Write(toc.Bytes())
	archive.Write(fileBody)

	return archive.Bytes()
}

func TestOpenAndChildren(t *testing.T) {
	fileBody := []byte("hello")
	raw := buildArchive(t, 0, uint32(len(fileBody)), fileBody)

	a, err := Open(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	children := a.Root().Children()
	require.Len(t, children, 2, "_info_ should be skipped")
	require.Equal(t, "abc.defXghi", children[0].Name())
	require.True(t, children[0].IsDir())
	require.Equal(t, "file1", children[1].Name())
	require.False(t, children[1].IsDir())
}

func TestLookupAndReadFile(t *testing.T) {
	fileBody := []byte("hello world")
	raw := buildArchive(t, 0, uint32(len(fileBody)), fileBody)

	a, err := Open(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	d, ok := a.Lookup("file1")
	require.True(t, ok)

	n, err := a.ReadFile(d, nil)
	require.NoError(t, err)
	require.Equal(t, len(fileBody), n)

	dst := make([]byte, n)
	n, err = a.ReadFile(d, dst)
	require.NoError(t, err)
	require.Equal(t, fileBody, dst[:n])
}

func TestReadFileTooSmallDestination(t *testing.T) {
	fileBody := []byte("hello world")
	raw := buildArchive(t, 0, uint32(len(fileBody)), fileBody)

	a, err := Open(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	d, ok := a.Lookup("file1")
	require.True(t, ok)

	_, err = a.ReadFile(d, make([]byte, 3))
	require.ErrorIs(t, err, errs.NoSpace)
}
