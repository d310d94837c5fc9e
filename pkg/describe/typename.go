// Package describe provides the reflection substitute used by the model IR.
//
// Nodes are strongly typed internally (generic over their element type), so
// the usual Go reflection machinery is deliberately avoided: every concrete
// node type registers itself under a stable composite type name (for example
// "ConstantNode<double>"), and serialization describes node state through
// [ObjectDescription] values instead of struct tags.
//
// The composite type name is the on-disk and registry key. Changing how a
// name is composed breaks every previously serialized model and must be
// treated as a format version change.
package describe

import "fmt"

// Canonical element type names. These match the names embedded in serialized
// models, not the Go type names, so they are stable across ports of the IR.
const (
	TypeBool    = "bool"
	TypeInt     = "int"
	TypeInt32   = "int32"
	TypeInt64   = "int64"
	TypeFloat   = "float"
	TypeDouble  = "double"
	TypeString  = "string"
	TypeUnknown = "unknown"
)

// ElementTypeName returns the canonical name for an element type.
// Unsupported types map to TypeUnknown; callers registering node kinds should
// only instantiate them with supported element types.
func ElementTypeName[T any]() string {
	var zero T
	switch any(zero).(type) {
	case bool:
		return TypeBool
	case int:
		return TypeInt
	case int32:
		return TypeInt32
	case int64:
		return TypeInt64
	case float32:
		return TypeFloat
	case float64:
		return TypeDouble
	case string:
		return TypeString
	default:
		return TypeUnknown
	}
}

// CompositeTypeName combines a base type name with an element type name into
// the canonical registry key, e.g. CompositeTypeName("ConstantNode", "double")
// returns "ConstantNode<double>".
func CompositeTypeName(base, elem string) string {
	return fmt.Sprintf("%s<%s>", base, elem)
}

// VectorTypeName returns the canonical name for an ordered sequence of the
// given element type, e.g. "vector<double>". Used as the field type name for
// sequence-valued fields in object descriptions.
func VectorTypeName(elem string) string {
	return fmt.Sprintf("vector<%s>", elem)
}
