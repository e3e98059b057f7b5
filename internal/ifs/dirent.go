package ifs

import (
	"strings"

	"github.com/go573/binprop/internal/prop"
)

// Dirent is a single entry in an IFS archive's table of contents: either a
// directory (prop type void or s32) or a file (prop type 3s32).
type Dirent struct {
	node *prop.Node
}

// IsDir reports whether the dirent is a directory.
func (d Dirent) IsDir() bool {
	return isDir(d.node)
}

// Name returns the dirent's public name: its raw prop name with
// underscore escapes resolved ("_E" -> ".", any other "_X" passes X
// through verbatim with the underscore consumed).
func (d Dirent) Name() string {
	raw := d.node.Name()

	var sb strings.Builder
	escape := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if escape {
			if c == 'E' {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(c)
			}
			escape = false
		} else if c == '_' {
			escape = true
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Children returns the dirent's entries in prop-insertion order, except
// that a leading child whose raw name is "_info_" is skipped.
func (d Dirent) Children() []Dirent {
	raw := d.node.Children()
	if len(raw) > 0 && raw[0].Name() == "_info_" {
		raw = raw[1:]
	}

	out := make([]Dirent, len(raw))
	for i, n := range raw {
		out[i] = Dirent{node: n}
	}
	return out
}

func (d Dirent) lookup(path string) (Dirent, bool) {
	remaining := path
	cur := d
	for remaining != "" {
		component := remaining
		if idx := strings.IndexByte(remaining, '/'); idx >= 0 {
			component = remaining[:idx]
			remaining = remaining[idx+1:]
		} else {
			remaining = ""
		}

		found := false
		for _, child := range cur.Children() {
			if child.Name() == component {
				cur = child
				found = true
				break
			}
		}
		if !found {
			return Dirent{}, false
		}
	}
	return cur, true
}
