package nodes

import (
	"fmt"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

const outputBaseName = "OutputNode"

// OutputTypeName returns the composite type name of the output kind for an
// element type, e.g. "OutputNode<double>".
func OutputTypeName[T model.Element]() string {
	return describe.CompositeTypeName(outputBaseName, describe.ElementTypeName[T]())
}

// Output marks a port as a designated model result. It passes its input
// through unchanged; tools like the refiner treat everything not reachable
// from an output node as dead.
type Output[T model.Element] struct {
	model.Base
	in  *model.InputPort[T]
	out *model.OutputPort[T]
}

func newOutput[T model.Element]() *Output[T] {
	n := &Output[T]{}
	n.in = model.NewInputPort[T](&n.Base, inputPortName, nil)
	n.out = model.NewOutputPort[T](&n.Base, OutputPortName, 0)
	return n
}

// NewOutput creates an output node reading from the given port and adds it
// to m.
func NewOutput[T model.Element](m *model.Model, source *model.OutputPort[T]) (*Output[T], error) {
	if source == nil {
		return nil, model.ErrNilSource
	}
	n := newOutput[T]()
	if err := n.in.Bind(source); err != nil {
		return nil, err
	}
	n.out.SetSize(source.Size())
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Output returns the node's output port.
func (n *Output[T]) Output() *model.OutputPort[T] { return n.out }

// isModelResult marks the node as a designated result for the refiner.
func (n *Output[T]) isModelResult() {}

// RuntimeTypeName returns the node's composite type name.
func (n *Output[T]) RuntimeTypeName() string { return OutputTypeName[T]() }

// Compute passes the input's current values through.
func (n *Output[T]) Compute() error {
	n.out.SetValues(n.in.Values())
	return nil
}

// Copy resolves the new version of the input and creates the copy wired to
// it.
func (n *Output[T]) Copy(t *model.Transformer) error {
	source, err := model.CorrespondingOutput(t, n.in)
	if err != nil {
		return err
	}
	nn, err := NewOutput(t.Target(), source)
	if err != nil {
		return err
	}
	t.MapPort(n.out, nn.out)
	return nil
}

// OutputTypeDescription returns the schema of the output kind's persistent
// fields for an element type.
func OutputTypeDescription[T model.Element]() *describe.ObjectDescription {
	d := describe.New(OutputTypeName[T]())
	d.AddObject(inputPortName, describe.New(portRefTypeName))
	return d
}

// Description returns a snapshot of the node's persistent fields.
func (n *Output[T]) Description() (*describe.ObjectDescription, error) {
	d := describe.New(OutputTypeName[T]())
	describePortRef(d, inputPortName, n.in.Source())
	return d, nil
}

// SetState restores the node's input wiring from a description.
func (n *Output[T]) SetState(d *describe.ObjectDescription, ctx *archive.Context) error {
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
	n.applyState(source)
	return nil
}

// Serialize writes the input wiring.
func (n *Output[T]) Serialize(w archive.Writer) error {
	return writePortRef(w, inputPortName, n.in.Source())
}

// Deserialize fully overwrites the node's input wiring from the channel.
func (n *Output[T]) Deserialize(r archive.Reader, ctx *archive.Context) error {
	node, port, err := readPortRef(r, inputPortName)
	if err != nil {
		return err
	}
	source, err := resolveSource[T](ctx, node, port)
	if err != nil {
		return err
	}
	n.applyState(source)
	return nil
}

func (n *Output[T]) applyState(source *model.OutputPort[T]) {
	_ = n.in.Bind(source)
	n.out.SetSize(source.Size())
	n.out.SetValues(nil)
}

var _ model.Node = (*Output[float64])(nil)
