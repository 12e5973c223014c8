package of

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path"
	"unicode"
)

// LoadDir loads an exported device tree such as /proc/device-tree.
func LoadDir(dir string) (*Tree, error) {
	t, err := LoadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	t.source = dir
	return t, nil
}

// LoadFS loads a device tree from root in fsys. Directories are nodes and
// regular files are properties. A file holding NUL-terminated printable
// strings is a string list; otherwise a length divisible by four is read
// as big-endian cells. Empty files are flags.
func LoadFS(fsys fs.FS, root string) (*Tree, error) {
	t := NewTree()
	t.source = root
	if err := fsFill(t.root, fsys, root); err != nil {
		return nil, err
	}
	return t, nil
}

func fsFill(n *Node, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	// Properties first so a node is complete before its children.
	for _, e := range entries {
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		if err := fsProperty(n, e.Name(), data); err != nil {
			return fmt.Errorf("%s: %w", path.Join(dir, e.Name()), err)
		}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := fsFill(n.AddChild(e.Name()), fsys, path.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func fsProperty(n *Node, name string, data []byte) error {
	switch {
	case len(data) == 0:
		n.SetFlag(name)
	case isStringList(data):
		parts := bytes.Split(data[:len(data)-1], []byte{0})
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = string(p)
		}
		n.SetStrings(name, strs...)
	case len(data)%4 == 0:
		cells := make([]uint32, len(data)/4)
		for i := range cells {
			cells[i] = binary.BigEndian.Uint32(data[i*4:])
		}
		n.SetCells(name, cells...)
	default:
		return fmt.Errorf("%d-byte value is neither strings nor cells", len(data))
	}
	return nil
}

// isStringList reports whether data is one or more non-empty printable
// strings, each NUL-terminated.
func isStringList(data []byte) bool {
	if data[len(data)-1] != 0 || data[0] == 0 {
		return false
	}
	prevNUL := false
	for _, b := range data[:len(data)-1] {
		if b == 0 {
			if prevNUL {
				return false
			}
			prevNUL = true
			continue
		}
		prevNUL = false
		if b > unicode.MaxASCII || !unicode.IsPrint(rune(b)) {
			return false
		}
	}
	return !prevNUL
}
