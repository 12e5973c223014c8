package of

import (
	"strings"
	"sync/atomic"
)

// Tree is a firmware description. The zero value is not usable; use
// NewTree or a loader.
type Tree struct {
	root     *Node
	phandles map[uint32]*Node
	source   string
}

// NewTree creates a tree with an empty root node.
func NewTree() *Tree {
	t := &Tree{phandles: make(map[uint32]*Node)}
	t.root = &Node{tree: t}
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Source returns where the tree was loaded from, if anywhere.
func (t *Tree) Source() string {
	return t.source
}

// ByPhandle returns the node with the given phandle.
func (t *Tree) ByPhandle(ph uint32) *Node {
	return t.phandles[ph]
}

// FindByPath returns the node at an absolute path such as
// "/soc/i2c@1000".
func (t *Tree) FindByPath(path string) *Node {
	n := t.root
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		if n = n.Child(part); n == nil {
			return nil
		}
	}
	return n
}

// Walk visits every node depth-first in definition order, parents before
// children. Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	var walk func(*Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// FindCompatible returns every node compatible with one of compats, in
// walk order.
func (t *Tree) FindCompatible(compats ...string) []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		if n.IsCompatibleAny(compats) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

var defaultTree atomic.Pointer[Tree]

// SetDefault installs the tree boot-time population reads.
func SetDefault(t *Tree) {
	defaultTree.Store(t)
}

// Default returns the installed tree, or nil.
func Default() *Tree {
	return defaultTree.Load()
}
