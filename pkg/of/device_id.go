package of

// DeviceID is a compatible-string identifier for driver tables.
type DeviceID struct {
	Compatible string
}

// Compatible returns a DeviceID for compat.
func Compatible(compat string) DeviceID {
	return DeviceID{Compatible: compat}
}

func (id DeviceID) String() string {
	return id.Compatible
}

// Match reports whether node is compatible with id.
func (id DeviceID) Match(node *Node) bool {
	return node != nil && node.IsCompatible(id.Compatible)
}
