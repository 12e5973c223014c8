// Package of models the firmware description tree devices are discovered
// from.
//
// A Tree is a hierarchy of named nodes carrying properties. Property
// values are either strings (compatible = "vendor,dev") or 32-bit cells
// (interrupts = <0 5 4>); a property with neither is a boolean flag.
//
// Trees are built programmatically or loaded from three sources:
//
//   - YAML documents (LoadYAML), where mappings are child nodes and
//     scalars or sequences are properties
//   - HCL documents (LoadHCL), where node "name" {} blocks are children
//     and attributes are properties
//   - an exported device-tree directory (LoadFS, LoadDir), where
//     directories are nodes and files are properties
//
// Populate walks the nodes compatible with a bus allow-list and reports
// each available child that has a compatible string.
package of
