package of

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadYAML parses a YAML firmware description. The document's top-level
// mapping is the root node; nested mappings are child nodes. Scalars and
// sequences are properties: strings become string lists, integers become
// cells, and null or true marks a flag.
//
//	soc:
//	  compatible: simple-bus
//	  uart@1000:
//	    compatible: ["vendor,uart", ns16550]
//	    interrupts: [0, 33, 4]
func LoadYAML(data []byte, source string) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	t := NewTree()
	t.source = source
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return t, nil
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d: top level must be a mapping", source, top.Line)
	}
	if err := yamlFill(t.root, top, source); err != nil {
		return nil, err
	}
	return t, nil
}

func yamlFill(n *Node, m *yaml.Node, source string) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		name := key.Value
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}

		switch val.Kind {
		case yaml.MappingNode:
			if err := yamlFill(n.AddChild(name), val, source); err != nil {
				return err
			}
		case yaml.ScalarNode:
			if err := yamlScalar(n, name, val, source); err != nil {
				return err
			}
		case yaml.SequenceNode:
			if err := yamlSequence(n, name, val, source); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s:%d: %s: unsupported value", source, val.Line, name)
		}
	}
	return nil
}

func yamlScalar(n *Node, name string, v *yaml.Node, source string) error {
	switch v.Tag {
	case "!!null":
		n.SetFlag(name)
	case "!!bool":
		if v.Value != "true" {
			return fmt.Errorf("%s:%d: %s: false flags are omitted, not set", source, v.Line, name)
		}
		n.SetFlag(name)
	case "!!int":
		c, err := yamlCell(v)
		if err != nil {
			return fmt.Errorf("%s:%d: %s: %w", source, v.Line, name, err)
		}
		n.SetCells(name, c)
	default:
		n.SetStrings(name, v.Value)
	}
	return nil
}

func yamlSequence(n *Node, name string, seq *yaml.Node, source string) error {
	if len(seq.Content) == 0 {
		n.SetFlag(name)
		return nil
	}

	if seq.Content[0].Tag == "!!int" {
		cells := make([]uint32, len(seq.Content))
		for i, item := range seq.Content {
			if item.Tag != "!!int" {
				return fmt.Errorf("%s:%d: %s: mixed cell and string values", source, item.Line, name)
			}
			c, err := yamlCell(item)
			if err != nil {
				return fmt.Errorf("%s:%d: %s: %w", source, item.Line, name, err)
			}
			cells[i] = c
		}
		n.SetCells(name, cells...)
		return nil
	}

	strs := make([]string, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.ScalarNode || item.Tag == "!!int" {
			return fmt.Errorf("%s:%d: %s: mixed cell and string values", source, item.Line, name)
		}
		strs[i] = item.Value
	}
	n.SetStrings(name, strs...)
	return nil
}

func yamlCell(v *yaml.Node) (uint32, error) {
	c, err := strconv.ParseUint(v.Value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("cell %q out of range", v.Value)
	}
	return uint32(c), nil
}
