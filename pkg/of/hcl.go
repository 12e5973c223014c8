package of

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

const (
	// nodeBlockType is the HCL block type for child nodes.
	nodeBlockType = "node"

	// propertiesAttr holds properties whose names are not HCL
	// identifiers, such as "#interrupt-cells".
	propertiesAttr = "properties"
)

// LoadHCL parses an HCL firmware description. Attributes are properties
// and node "name" {} blocks are children:
//
//	node "soc" {
//	  compatible = "simple-bus"
//	  properties = {
//	    "#address-cells" = 1
//	  }
//	  node "uart@1000" {
//	    compatible = ["vendor,uart", "ns16550"]
//	    interrupts = [0, 33, 4]
//	  }
//	}
//
// Expressions are evaluated without variables, so arithmetic such as
// 32 + 1 is allowed.
func LoadHCL(data []byte, source string) (*Tree, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, source)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", source, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected body type %T", source, file.Body)
	}

	t := NewTree()
	t.source = source
	if err := hclFill(t.root, body); err != nil {
		return nil, err
	}
	return t, nil
}

func hclFill(n *Node, body *hclsyntax.Body) error {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	// Attributes arrive as a map; restore source order.
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, a := range attrs {
		if a.Name == propertiesAttr {
			if err := hclPropertyObject(n, a); err != nil {
				return err
			}
			continue
		}
		val, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("%s: %s", a.SrcRange, diags.Error())
		}
		if err := hclProperty(n, a.Name, val); err != nil {
			return fmt.Errorf("%s: %s: %w", a.SrcRange, a.Name, err)
		}
	}

	for _, b := range body.Blocks {
		if b.Type != nodeBlockType || len(b.Labels) != 1 {
			return fmt.Errorf("%s: expected node \"name\" block, got %s with %d labels", b.DefRange(), b.Type, len(b.Labels))
		}
		if err := hclFill(n.AddChild(b.Labels[0]), b.Body); err != nil {
			return err
		}
	}
	return nil
}

// hclPropertyObject sets the properties of a properties = { ... }
// attribute in source order.
func hclPropertyObject(n *Node, a *hclsyntax.Attribute) error {
	obj, ok := a.Expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return fmt.Errorf("%s: %s must be an object", a.SrcRange, propertiesAttr)
	}
	for _, item := range obj.Items {
		key, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("%s: %s", item.KeyExpr.Range(), diags.Error())
		}
		if key.IsNull() || key.Type() != cty.String {
			return fmt.Errorf("%s: property name must be a string", item.KeyExpr.Range())
		}
		val, diags := item.ValueExpr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("%s: %s", item.ValueExpr.Range(), diags.Error())
		}
		if err := hclProperty(n, key.AsString(), val); err != nil {
			return fmt.Errorf("%s: %s: %w", item.ValueExpr.Range(), key.AsString(), err)
		}
	}
	return nil
}

func hclProperty(n *Node, name string, v cty.Value) error {
	if v.IsNull() {
		n.SetFlag(name)
		return nil
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("value not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		n.SetStrings(name, v.AsString())
	case ty == cty.Number:
		c, err := ctyCell(v)
		if err != nil {
			return err
		}
		n.SetCells(name, c)
	case ty == cty.Bool:
		if v.False() {
			return fmt.Errorf("false flags are omitted, not set")
		}
		n.SetFlag(name)
	case ty.IsTupleType() || ty.IsListType():
		return hclList(n, name, v.AsValueSlice())
	default:
		return fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
	return nil
}

func hclList(n *Node, name string, items []cty.Value) error {
	if len(items) == 0 {
		n.SetFlag(name)
		return nil
	}

	if items[0].Type() == cty.Number {
		cells := make([]uint32, len(items))
		for i, item := range items {
			if item.Type() != cty.Number {
				return fmt.Errorf("mixed cell and string values")
			}
			c, err := ctyCell(item)
			if err != nil {
				return err
			}
			cells[i] = c
		}
		n.SetCells(name, cells...)
		return nil
	}

	strs := make([]string, len(items))
	for i, item := range items {
		if item.Type() != cty.String {
			return fmt.Errorf("mixed cell and string values")
		}
		strs[i] = item.AsString()
	}
	n.SetStrings(name, strs...)
	return nil
}

func ctyCell(v cty.Value) (uint32, error) {
	bf := v.AsBigFloat()
	if !bf.IsInt() || bf.Sign() < 0 {
		return 0, fmt.Errorf("cell %s is not a non-negative integer", bf.Text('g', -1))
	}
	u, acc := bf.Uint64()
	if acc != big.Exact || u > 0xFFFFFFFF {
		return 0, fmt.Errorf("cell %s out of range", bf.Text('g', -1))
	}
	return uint32(u), nil
}
