package ioutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterSizingThenBacked(t *testing.T) {
	render := func(w *Writer) {
		w.WriteU8(0x42)
		w.WriteU32BE(0xDEADBEEF)
		w.WriteString("hi")
	}

	sizing := NewSizingWriter()
	render(sizing)
	require.Equal(t, 7, sizing.Pos())

	backed := NewWriter(make([]byte, sizing.Pos()))
	render(backed)
	require.Equal(t, sizing.Pos(), backed.Pos())
	require.Equal(t, []byte{0x42, 0xDE, 0xAD, 0xBE, 0xEF, 'h', 'i'}, backed.Bytes())
}
