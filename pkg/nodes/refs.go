package nodes

import (
	"fmt"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

// portRefTypeName is the composite type name for serialized port references.
const portRefTypeName = "PortRef"

// writePortRef archives an input's upstream port reference as a nested
// object with "node" and "port" fields.
func writePortRef(w archive.Writer, name string, ref model.PortRef) error {
	nw, err := w.Nested(name)
	if err != nil {
		return err
	}
	if err := nw.Write("node", int64(ref.Node)); err != nil {
		return err
	}
	return nw.Write("port", ref.Port)
}

// readPortRef reads a port reference written by writePortRef.
func readPortRef(r archive.Reader, name string) (int64, string, error) {
	nr, err := r.Nested(name)
	if err != nil {
		return 0, "", err
	}
	var node int64
	if err := nr.Read("node", &node); err != nil {
		return 0, "", err
	}
	var port string
	if err := nr.Read("port", &port); err != nil {
		return 0, "", err
	}
	return node, port, nil
}

// resolveSource maps a serialized port reference to the reconstructed
// upstream port through the deserialization context.
func resolveSource[T model.Element](ctx *archive.Context, nodeID int64, port string) (*model.OutputPort[T], error) {
	raw, err := ctx.Port(nodeID, port)
	if err != nil {
		return nil, err
	}
	out, ok := raw.(*model.OutputPort[T])
	if !ok {
		return nil, fmt.Errorf("port %d.%s does not carry %s: %w",
			nodeID, port, describe.ElementTypeName[T](), describe.ErrTypeMismatch)
	}
	return out, nil
}

// describePortRef adds a port reference to a description as a nested object.
func describePortRef(d *describe.ObjectDescription, name string, ref model.PortRef) {
	nested := describe.New(portRefTypeName)
	nested.Add("node", describe.TypeInt64, int64(ref.Node))
	nested.Add("port", describe.TypeString, ref.Port)
	d.AddObject(name, nested)
}

// descriptionPortRef extracts a port reference added by describePortRef.
func descriptionPortRef(d *describe.ObjectDescription, name string) (int64, string, error) {
	f, ok := d.Field(name)
	if !ok {
		return 0, "", fmt.Errorf("field %q: %w", name, describe.ErrMissingField)
	}
	if f.Object == nil {
		return 0, "", fmt.Errorf("field %q is not a port reference: %w", name, describe.ErrTypeMismatch)
	}
	node, err := describe.Value[int64](f.Object, "node")
	if err != nil {
		return 0, "", fmt.Errorf("field %q node: %w", name, err)
	}
	port, err := describe.Value[string](f.Object, "port")
	if err != nil {
		return 0, "", fmt.Errorf("field %q port: %w", name, err)
	}
	return node, port, nil
}
