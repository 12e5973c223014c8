package of

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// maxInterruptCells bounds #interrupt-cells.
const maxInterruptCells = 32

// IRQSpec is one parsed interrupt specifier.
type IRQSpec struct {
	Parent *Node
	Args   []uint32
}

// ParseIRQ reads specifier index from the node's interrupts property,
// sized by the interrupt parent's #interrupt-cells.
func ParseIRQ(node *Node, index int) (IRQSpec, error) {
	parent := node.InterruptParent()
	if parent == nil {
		return IRQSpec{}, fmt.Errorf("%s: no interrupt parent: %w", node.FullName(), errcode.ErrInvalidArgument)
	}
	size, err := parent.InterruptCells()
	if err != nil {
		return IRQSpec{}, fmt.Errorf("%s: interrupt parent %s: %w", node.FullName(), parent.FullName(), errcode.ErrInvalidArgument)
	}
	if size == 0 || size > maxInterruptCells {
		return IRQSpec{}, fmt.Errorf("%s: #interrupt-cells %d: %w", parent.FullName(), size, errcode.ErrInvalidArgument)
	}

	spec := IRQSpec{Parent: parent, Args: make([]uint32, size)}
	for i := range spec.Args {
		v, err := node.ReadU32(PropInterrupts, index*int(size)+i)
		if err != nil {
			return IRQSpec{}, fmt.Errorf("interrupt %d: %w", index, err)
		}
		spec.Args[i] = v
	}
	return spec, nil
}

// IRQ returns the interrupt number of specifier index. Only the
// three-cell (type, number, flags) form is supported.
func IRQ(node *Node, index int) (uint32, error) {
	spec, err := ParseIRQ(node, index)
	if err != nil {
		return 0, err
	}
	if len(spec.Args) != 3 {
		return 0, fmt.Errorf("%s: %d-cell interrupt specifier: %w", node.FullName(), len(spec.Args), errcode.ErrUnsupported)
	}
	return spec.Args[1], nil
}

// IRQCount returns the number of specifiers in the interrupts property.
func IRQCount(node *Node) int {
	p := node.Property(PropInterrupts)
	parent := node.InterruptParent()
	if p == nil || parent == nil {
		return 0
	}
	size, err := parent.InterruptCells()
	if err != nil || size == 0 {
		return 0
	}
	return len(p.Cells) / int(size)
}
