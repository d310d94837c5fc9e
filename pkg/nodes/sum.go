package nodes

import (
	"fmt"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

// inputPortName is the input name of single-input kinds.
const inputPortName = "input"

const sumBaseName = "SumNode"

// SumTypeName returns the composite type name of the sum kind for an
// element type, e.g. "SumNode<double>".
func SumTypeName[T model.Numeric]() string {
	return describe.CompositeTypeName(sumBaseName, describe.ElementTypeName[T]())
}

// Sum reduces its input port to a single value: the sum of all elements.
// Its output port always has size 1.
type Sum[T model.Numeric] struct {
	model.Base
	in  *model.InputPort[T]
	out *model.OutputPort[T]
}

func newSum[T model.Numeric]() *Sum[T] {
	n := &Sum[T]{}
	n.in = model.NewInputPort[T](&n.Base, inputPortName, nil)
	n.out = model.NewOutputPort[T](&n.Base, OutputPortName, 1)
	return n
}

// NewSum creates a sum node reading from the given output port and adds it
// to m.
func NewSum[T model.Numeric](m *model.Model, source *model.OutputPort[T]) (*Sum[T], error) {
	if source == nil {
		return nil, model.ErrNilSource
	}
	n := newSum[T]()
	if err := n.in.Bind(source); err != nil {
		return nil, err
	}
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Output returns the node's output port.
func (n *Sum[T]) Output() *model.OutputPort[T] { return n.out }

// RuntimeTypeName returns the node's composite type name.
func (n *Sum[T]) RuntimeTypeName() string { return SumTypeName[T]() }

// Compute publishes the sum of the input's current values. An empty input
// sums to the zero value.
func (n *Sum[T]) Compute() error {
	var total T
	for _, v := range n.in.Values() {
		total += v
	}
	n.out.SetValues([]T{total})
	return nil
}

// Copy resolves the new version of the input through the transformer's
// remapping table and creates the copy wired to it.
func (n *Sum[T]) Copy(t *model.Transformer) error {
	source, err := model.CorrespondingOutput(t, n.in)
	if err != nil {
		return err
	}
	nn, err := NewSum(t.Target(), source)
	if err != nil {
		return err
	}
	t.MapPort(n.out, nn.out)
	return nil
}

// SumTypeDescription returns the schema of the sum kind's persistent fields
// for an element type.
func SumTypeDescription[T model.Numeric]() *describe.ObjectDescription {
	d := describe.New(SumTypeName[T]())
	d.AddObject(inputPortName, describe.New(portRefTypeName))
	return d
}

// Description returns a snapshot of the node's persistent fields.
func (n *Sum[T]) Description() (*describe.ObjectDescription, error) {
	d := describe.New(SumTypeName[T]())
	describePortRef(d, inputPortName, n.in.Source())
	return d, nil
}

// SetState restores the node's input wiring from a description.
func (n *Sum[T]) SetState(d *describe.ObjectDescription, ctx *archive.Context) error {
	if d.TypeName != n.RuntimeTypeName() {
		return fmt.Errorf("description %q applied to %q: %w", d.TypeName, n.RuntimeTypeName(), describe.ErrTypeMismatch)
	}
	node, port, err := descriptionPortRef(d, inputPortName)
	if err != nil {
		return err
	}
	source, err := resolveSource[T](ctx, node, port)
	if err != nil {
		return err
	}
	return n.in.Bind(source)
}

// Serialize writes the input wiring.
func (n *Sum[T]) Serialize(w archive.Writer) error {
	return writePortRef(w, inputPortName, n.in.Source())
}

// Deserialize fully overwrites the node's input wiring from the channel.
func (n *Sum[T]) Deserialize(r archive.Reader, ctx *archive.Context) error {
	node, port, err := readPortRef(r, inputPortName)
	if err != nil {
		return err
	}
	source, err := resolveSource[T](ctx, node, port)
	if err != nil {
		return err
	}
	return n.in.Bind(source)
}

var _ model.Node = (*Sum[float64])(nil)
