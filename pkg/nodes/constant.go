package nodes

import (
	"fmt"
	"slices"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

// OutputPortName is the conventional name of a node's primary output port.
const OutputPortName = "output"

const constantBaseName = "ConstantNode"

// ConstantTypeName returns the composite type name of the constant kind for
// an element type, e.g. "ConstantNode<double>". Stable across calls and
// instances; it is the registry and serialization key.
func ConstantTypeName[T model.Element]() string {
	return describe.CompositeTypeName(constantBaseName, describe.ElementTypeName[T]())
}

// Constant is a node that carries a fixed value sequence. It has no inputs;
// Compute republishes the stored values to its single output port.
type Constant[T model.Element] struct {
	model.Base
	out    *model.OutputPort[T]
	values []T
}

// newConstant constructs an empty, unwired constant. Used by the registry
// factory; the public constructor is NewConstant.
func newConstant[T model.Element]() *Constant[T] {
	n := &Constant[T]{}
	n.out = model.NewOutputPort[T](&n.Base, OutputPortName, 0)
	return n
}

// NewConstant creates a constant node carrying the given values and adds it
// to m. A single value yields a scalar-like port of size 1; no values yield
// an empty port. Construction cannot fail: a constant has no inputs to
// miswire and touches no external resource.
func NewConstant[T model.Element](m *model.Model, values ...T) *Constant[T] {
	n := newConstant[T]()
	n.values = slices.Clone(values)
	n.out.SetSize(len(n.values))
	// Add only fails for wired or reused nodes; a fresh zero-input node
	// cannot trip either check.
	_ = m.Add(n)
	return n
}

// Values returns the values contained in this node, as a read-only view.
func (n *Constant[T]) Values() []T { return n.values }

// Output returns the node's output port.
func (n *Constant[T]) Output() *model.OutputPort[T] { return n.out }

// RuntimeTypeName returns the node's composite type name.
func (n *Constant[T]) RuntimeTypeName() string { return ConstantTypeName[T]() }

// Compute publishes the stored values to the output port. It ignores inputs
// (there are none) and is idempotent.
func (n *Constant[T]) Compute() error {
	n.out.SetValues(n.values)
	return nil
}

// Copy creates a constant with the same values in the transformer's target
// model and registers its output as the replacement for this node's output.
// No input remapping is needed for a zero-input kind.
func (n *Constant[T]) Copy(t *model.Transformer) error {
	nn := NewConstant(t.Target(), n.values...)
	t.MapPort(n.out, nn.out)
	return nil
}

// ConstantTypeDescription returns the schema of the constant kind's
// persistent fields for an element type: field names and type names,
// independent of any instance.
func ConstantTypeDescription[T model.Element]() *describe.ObjectDescription {
	d := describe.New(ConstantTypeName[T]())
	d.Add("values", describe.VectorTypeName(describe.ElementTypeName[T]()), nil)
	d.Add("size", describe.TypeInt, nil)
	return d
}

// Description returns a snapshot of the node's persistent fields.
func (n *Constant[T]) Description() (*describe.ObjectDescription, error) {
	d := describe.New(ConstantTypeName[T]())
	d.Add("values", describe.VectorTypeName(describe.ElementTypeName[T]()), slices.Clone(n.values))
	d.Add("size", describe.TypeInt, n.out.Size())
	return d, nil
}

// SetState restores the node's fields from a description. The declared type
// name must match the node's own; "values" is required, "size" is derived
// from it when absent. Nothing is mutated on failure.
func (n *Constant[T]) SetState(d *describe.ObjectDescription, _ *archive.Context) error {
	if d.TypeName != n.RuntimeTypeName() {
		return fmt.Errorf("description %q applied to %q: %w", d.TypeName, n.RuntimeTypeName(), describe.ErrTypeMismatch)
	}
	values, err := describe.Value[[]T](d, "values")
	if err != nil {
		return fmt.Errorf("field %q: %w", "values", err)
	}
	n.values = slices.Clone(values)
	n.out.SetSize(len(n.values))
	n.out.SetValues(nil)
	return nil
}

// Serialize writes the stored values and the output port's element count.
func (n *Constant[T]) Serialize(w archive.Writer) error {
	if err := w.Write("values", n.values); err != nil {
		return err
	}
	return w.Write("size", n.out.Size())
}

// Deserialize fully overwrites the node's fields from the channel. "values"
// is required; "size" defaults to the value count when absent.
func (n *Constant[T]) Deserialize(r archive.Reader, _ *archive.Context) error {
	var values []T
	if err := r.Read("values", &values); err != nil {
		return err
	}
	size := len(values)
	if r.Has("size") {
		if err := r.Read("size", &size); err != nil {
			return err
		}
	}
	n.values = values
	n.out.SetSize(size)
	n.out.SetValues(nil)
	return nil
}

var _ model.Node = (*Constant[float64])(nil)
