package of

import (
	"fmt"
	"slices"
	"strings"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Standard property names.
const (
	PropCompatible      = "compatible"
	PropStatus          = "status"
	PropPhandle         = "phandle"
	PropInterrupts      = "interrupts"
	PropInterruptParent = "interrupt-parent"
	PropInterruptCells  = "#interrupt-cells"
)

// Property is one named node property.
type Property struct {
	Name    string
	Strings []string
	Cells   []uint32
}

// IsFlag reports whether the property carries no value.
func (p *Property) IsFlag() bool {
	return len(p.Strings) == 0 && len(p.Cells) == 0
}

// String formats the value in device-tree source syntax.
func (p *Property) String() string {
	switch {
	case len(p.Strings) > 0:
		quoted := make([]string, len(p.Strings))
		for i, s := range p.Strings {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return strings.Join(quoted, ", ")
	case len(p.Cells) > 0:
		cells := make([]string, len(p.Cells))
		for i, c := range p.Cells {
			cells[i] = fmt.Sprintf("%#x", c)
		}
		return "<" + strings.Join(cells, " ") + ">"
	default:
		return ""
	}
}

// Node is one firmware description node. A node refers to its parent
// without owning it; the Tree owns every node.
type Node struct {
	tree     *Tree
	parent   *Node
	name     string
	props    []*Property
	children []*Node
}

// Name returns the node name, e.g. "i2c@1000".
func (n *Node) Name() string {
	return n.name
}

// FullName returns the node path, e.g. "/soc/i2c@1000".
func (n *Node) FullName() string {
	if n.parent == nil {
		return "/"
	}
	if n.parent.parent == nil {
		return "/" + n.name
	}
	return n.parent.FullName() + "/" + n.name
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes in definition order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Child returns the child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Tree returns the tree owning the node.
func (n *Node) Tree() *Tree {
	return n.tree
}

// AddChild creates a child node. Adding a name twice returns the
// existing child.
func (n *Node) AddChild(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := &Node{tree: n.tree, parent: n, name: name}
	n.children = append(n.children, c)
	return c
}

// Properties returns the properties in definition order.
func (n *Node) Properties() []*Property {
	return slices.Clone(n.props)
}

// Property returns the named property, or nil.
func (n *Node) Property(name string) *Property {
	for _, p := range n.props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// HasProperty reports whether the named property exists.
func (n *Node) HasProperty(name string) bool {
	return n.Property(name) != nil
}

func (n *Node) set(p *Property) {
	for i, old := range n.props {
		if old.Name == p.Name {
			n.props[i] = p
			n.index(p)
			return
		}
	}
	n.props = append(n.props, p)
	n.index(p)
}

func (n *Node) index(p *Property) {
	if p.Name == PropPhandle && len(p.Cells) == 1 && n.tree != nil {
		n.tree.phandles[p.Cells[0]] = n
	}
}

// SetStrings sets a string-list property.
func (n *Node) SetStrings(name string, values ...string) *Node {
	n.set(&Property{Name: name, Strings: slices.Clone(values)})
	return n
}

// SetCells sets a cell-list property. A "phandle" property registers the
// node with its tree.
func (n *Node) SetCells(name string, cells ...uint32) *Node {
	n.set(&Property{Name: name, Cells: slices.Clone(cells)})
	return n
}

// SetFlag sets a boolean property.
func (n *Node) SetFlag(name string) *Node {
	n.set(&Property{Name: name})
	return n
}

// Compatible returns the compatible strings, most specific first.
func (n *Node) Compatible() []string {
	if p := n.Property(PropCompatible); p != nil {
		return slices.Clone(p.Strings)
	}
	return nil
}

// IsCompatible reports whether one of the node's compatible strings is
// compat.
func (n *Node) IsCompatible(compat string) bool {
	if p := n.Property(PropCompatible); p != nil {
		return slices.Contains(p.Strings, compat)
	}
	return false
}

// IsCompatibleAny reports whether the node is compatible with one of
// compats.
func (n *Node) IsCompatibleAny(compats []string) bool {
	return slices.ContainsFunc(compats, n.IsCompatible)
}

// IsAvailable reports whether the node's status is "okay" or "ok", or
// absent.
func (n *Node) IsAvailable() bool {
	p := n.Property(PropStatus)
	if p == nil {
		return true
	}
	if len(p.Strings) == 0 {
		return false
	}
	return p.Strings[0] == "okay" || p.Strings[0] == "ok"
}

// ReadString returns the first string of the named property.
func (n *Node) ReadString(name string) (string, error) {
	p := n.Property(name)
	if p == nil || len(p.Strings) == 0 {
		return "", fmt.Errorf("%s: property %s: %w", n.FullName(), name, errcode.ErrNotFound)
	}
	return p.Strings[0], nil
}

// ReadU32 returns cell index of the named property.
func (n *Node) ReadU32(name string, index int) (uint32, error) {
	p := n.Property(name)
	if p == nil {
		return 0, fmt.Errorf("%s: property %s: %w", n.FullName(), name, errcode.ErrNotFound)
	}
	if index < 0 || index >= len(p.Cells) {
		return 0, fmt.Errorf("%s: property %s cell %d of %d: %w", n.FullName(), name, index, len(p.Cells), errcode.ErrInvalidArgument)
	}
	return p.Cells[index], nil
}

// Phandle returns the node's phandle, or 0.
func (n *Node) Phandle() uint32 {
	v, err := n.ReadU32(PropPhandle, 0)
	if err != nil {
		return 0
	}
	return v
}

// InterruptParent returns the node interrupts of n are routed to: the
// node named by interrupt-parent, or the nearest ancestor, repeated until
// a node declaring #interrupt-cells is found. A cyclic chain returns nil.
func (n *Node) InterruptParent() *Node {
	seen := map[*Node]struct{}{n: {}}
	cur := n
	for {
		next := cur.parent
		if ph, err := cur.ReadU32(PropInterruptParent, 0); err == nil && cur.tree != nil {
			next = cur.tree.ByPhandle(ph)
		}
		if next == nil {
			return nil
		}
		if _, ok := seen[next]; ok {
			return nil
		}
		seen[next] = struct{}{}
		if next.HasProperty(PropInterruptCells) {
			return next
		}
		cur = next
	}
}

// InterruptCells returns #interrupt-cells.
func (n *Node) InterruptCells() (uint32, error) {
	return n.ReadU32(PropInterruptCells, 0)
}

func (n *Node) String() string {
	return n.FullName()
}
