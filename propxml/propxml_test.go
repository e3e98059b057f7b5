package propxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go573/binprop/internal/ioutil"
	"github.com/go573/binprop/internal/prop"
)

func TestWriteEmptyNameVoidNode(t *testing.T) {
	root, err := prop.New("", prop.Void, nil)
	require.NoError(t, err)

	out, err := Write(root)
	require.NoError(t, err)
	require.Equal(t, "</>\n", string(out))
}

func TestWriteScalarLeaf(t *testing.T) {
	root, err := prop.New("count", prop.U32, []byte{0, 0, 0, 42})
	require.NoError(t, err)

	out, err := Write(root)
	require.NoError(t, err)
	require.Equal(t, "<count __type=\"u32\">42</count>\n", string(out))
}

func TestWriteNestedAndCaveValues(t *testing.T) {
	root, err := prop.New("root", prop.Void, nil)
	require.NoError(t, err)

	u8, err := prop.New("u8val", prop.U8, []byte{0x42})
	require.NoError(t, err)
	root.Append(u8)

	u16, err := prop.New("u16val", prop.U16, []byte{0x12, 0x34})
	require.NoError(t, err)
	root.Append(u16)

	out, err := Write(root)
	require.NoError(t, err)

	expected := "<root>\n" +
		"  <u8val __type=\"u8\">66</u8val>\n" +
		"  <u16val __type=\"u16\">4660</u16val>\n" +
		"</root>\n"
	require.Equal(t, expected, string(out))
}

func TestWriteTimeNode(t *testing.T) {
	root, err := prop.New("stamp", prop.Time, []byte{0x00, 0x00, 0x00, 0x2A})
	require.NoError(t, err)

	out, err := Write(root)
	require.NoError(t, err)
	require.Equal(t, "<stamp __type=\"time\">42</stamp>\n", string(out))
}

func TestWriteAttrsAndEscaping(t *testing.T) {
	root, err := prop.New("node", prop.Void, nil)
	require.NoError(t, err)
	root.SetAttr("label", `a<b>&"c'd`)

	out, err := Write(root)
	require.NoError(t, err)
	require.Equal(t, "<node label=\"a&lt;b&gt;&amp;&quot;c&apos;d\"/>\n", string(out))
}

func TestTwoPassLengthsMatch(t *testing.T) {
	root, err := prop.New("root", prop.Void, nil)
	require.NoError(t, err)
	root.SetAttr("k", "v")

	child, err := prop.New("str", prop.Str, []byte("hello\x00"))
	require.NoError(t, err)
	root.Append(child)

	sizing := sizeOnly(t, root)
	out, err := Write(root)
	require.NoError(t, err)
	require.Equal(t, sizing, len(out))
}

func sizeOnly(t *testing.T, root *prop.Node) int {
	t.Helper()
	w := ioutil.NewSizingWriter()
	require.NoError(t, writeNode(w, root, 0))
	return w.Pos()
}
