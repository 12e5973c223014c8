package of

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// digestKey separates tree digests from other BLAKE3 uses.
var digestKey = [32]byte([]byte("devmodel firmware tree digest v1"))

var digestEncMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("of: canonical CBOR mode: %v", err))
	}
	return em
}()

// wireNode is the canonical encoding of one node. Property and child
// order are kept: they are significant for matching and population.
type wireNode struct {
	Name     string         `cbor:"1,keyasint"`
	Props    []wireProperty `cbor:"2,keyasint,omitempty"`
	Children []wireNode     `cbor:"3,keyasint,omitempty"`
}

type wireProperty struct {
	Name    string   `cbor:"1,keyasint"`
	Strings []string `cbor:"2,keyasint,omitempty"`
	Cells   []uint32 `cbor:"3,keyasint,omitempty"`
}

func toWire(n *Node) wireNode {
	w := wireNode{Name: n.name}
	for _, p := range n.props {
		w.Props = append(w.Props, wireProperty{Name: p.Name, Strings: p.Strings, Cells: p.Cells})
	}
	for _, c := range n.children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

// MarshalCBOR returns the canonical CBOR encoding of the tree.
func (t *Tree) MarshalCBOR() ([]byte, error) {
	return digestEncMode.Marshal(toWire(t.root))
}

// Digest returns a hex BLAKE3 fingerprint of the tree's canonical
// encoding. Equal trees have equal digests regardless of source format.
func (t *Tree) Digest() (string, error) {
	data, err := t.MarshalCBOR()
	if err != nil {
		return "", fmt.Errorf("encode tree: %w", err)
	}
	h, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		return "", fmt.Errorf("digest key: %w", err)
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
