package of

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateSkipsChildWithoutCompatible(t *testing.T) {
	tree := NewTree()
	bus := tree.Root().AddChild("bus")
	bus.SetStrings(PropCompatible, "simple-bus")
	bus.AddChild("foo@0").SetStrings(PropCompatible, "vendor,foo")
	bus.AddChild("bar@1").SetCells("reg", 1)

	var created []string
	err := Populate(tree, DefaultBusMatchTable, nil, func(n *Node) error {
		created = append(created, n.FullName())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/bus/foo@0"}, created)
}

func TestPopulateBoard(t *testing.T) {
	tree := buildBoard()
	var created []string
	err := Populate(tree, DefaultBusMatchTable, nil, func(n *Node) error {
		created = append(created, n.FullName())
		return nil
	})
	require.NoError(t, err)
	// i2c is disabled and memory has no compatible string.
	assert.Equal(t, []string{"/soc/uart@1000"}, created)
}

func TestPopulateNestedBuses(t *testing.T) {
	tree := NewTree()
	outer := tree.Root().AddChild("soc").SetStrings(PropCompatible, "simple-bus")
	mfd := outer.AddChild("pmic@10").SetStrings(PropCompatible, "vendor,pmic", "simple-mfd")
	mfd.AddChild("rtc").SetStrings(PropCompatible, "vendor,rtc")
	tree.Root().AddChild("amba").SetStrings(PropCompatible, "arm,amba-bus").
		AddChild("dma@0").SetStrings(PropCompatible, "arm,pl330")

	var created []string
	err := Populate(tree, DefaultBusMatchTable, nil, func(n *Node) error {
		created = append(created, n.FullName())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/soc/pmic@10", "/soc/pmic@10/rtc", "/amba/dma@0"}, created)
}

func TestPopulateStopsOnError(t *testing.T) {
	tree := NewTree()
	bus := tree.Root().AddChild("bus").SetStrings(PropCompatible, "isa")
	bus.AddChild("a").SetStrings(PropCompatible, "x,a")
	bus.AddChild("b").SetStrings(PropCompatible, "x,b")

	boom := errors.New("boom")
	calls := 0
	err := Populate(tree, DefaultBusMatchTable, nil, func(*Node) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
