package nodes

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

// TextSetter is implemented by input nodes so that callers holding only the
// model.Node interface can supply values parsed from text.
type TextSetter interface {
	SetFromStrings(values []string) error
}

const inputBaseName = "InputNode"

// InputTypeName returns the composite type name of the input kind for an
// element type, e.g. "InputNode<double>".
func InputTypeName[T model.Element]() string {
	return describe.CompositeTypeName(inputBaseName, describe.ElementTypeName[T]())
}

// Input is a model entry point: a zero-input node whose output carries
// externally supplied values. The port size is fixed at construction; only
// value sequences of exactly that size can be set.
type Input[T model.Element] struct {
	model.Base
	out    *model.OutputPort[T]
	values []T
}

func newInput[T model.Element]() *Input[T] {
	n := &Input[T]{}
	n.out = model.NewOutputPort[T](&n.Base, OutputPortName, 0)
	return n
}

// NewInput creates an input node of the given port size and adds it to m.
func NewInput[T model.Element](m *model.Model, size int) (*Input[T], error) {
	if size < 0 {
		return nil, fmt.Errorf("input size %d: must be non-negative", size)
	}
	n := newInput[T]()
	n.out.SetSize(size)
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// SetValues stores the values the node publishes on its next compute. The
// count must match the declared port size.
func (n *Input[T]) SetValues(values []T) error {
	if len(values) != n.out.Size() {
		return fmt.Errorf("got %d values, port size is %d: %w", len(values), n.out.Size(), model.ErrSizeMismatch)
	}
	n.values = slices.Clone(values)
	return nil
}

// SetFromStrings parses each string as the node's element type and stores
// the results as the pending values.
func (n *Input[T]) SetFromStrings(values []string) error {
	parsed := make([]T, 0, len(values))
	for _, s := range values {
		v, err := parseElement[T](s)
		if err != nil {
			return fmt.Errorf("value %q: %w", s, err)
		}
		parsed = append(parsed, v)
	}
	return n.SetValues(parsed)
}

func parseElement[T model.Element](s string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return zero, err
		}
		return any(int32(v)).(T), nil
	case int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, err
		}
		return any(float32(v)).(T), nil
	case float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	default:
		return zero, fmt.Errorf("unsupported element type %s", describe.ElementTypeName[T]())
	}
}

// Output returns the node's output port.
func (n *Input[T]) Output() *model.OutputPort[T] { return n.out }

// RuntimeTypeName returns the node's composite type name.
func (n *Input[T]) RuntimeTypeName() string { return InputTypeName[T]() }

// Compute publishes the currently stored values.
func (n *Input[T]) Compute() error {
	n.out.SetValues(n.values)
	return nil
}

// Copy creates an input of the same size in the target model, carrying the
// same pending values.
func (n *Input[T]) Copy(t *model.Transformer) error {
	nn, err := NewInput[T](t.Target(), n.out.Size())
	if err != nil {
		return err
	}
	nn.values = slices.Clone(n.values)
	t.MapPort(n.out, nn.out)
	return nil
}

// InputTypeDescription returns the schema of the input kind's persistent
// fields for an element type.
func InputTypeDescription[T model.Element]() *describe.ObjectDescription {
	d := describe.New(InputTypeName[T]())
	d.Add("size", describe.TypeInt, nil)
	return d
}

// Description returns a snapshot of the node's persistent fields. Pending
// values are transient run data, not persistent state, and are excluded.
func (n *Input[T]) Description() (*describe.ObjectDescription, error) {
	d := describe.New(InputTypeName[T]())
	d.Add("size", describe.TypeInt, n.out.Size())
	return d, nil
}

// SetState restores the node's fields from a description.
func (n *Input[T]) SetState(d *describe.ObjectDescription, _ *archive.Context) error {
	if d.TypeName != n.RuntimeTypeName() {
		return fmt.Errorf("description %q applied to %q: %w", d.TypeName, n.RuntimeTypeName(), describe.ErrTypeMismatch)
	}
	size, err := describe.Value[int](d, "size")
	if err != nil {
		return fmt.Errorf("field %q: %w", "size", err)
	}
	n.out.SetSize(size)
	n.values = nil
	n.out.SetValues(nil)
	return nil
}

// Serialize writes the declared port size.
func (n *Input[T]) Serialize(w archive.Writer) error {
	return w.Write("size", n.out.Size())
}

// Deserialize fully overwrites the node's fields from the channel.
func (n *Input[T]) Deserialize(r archive.Reader, _ *archive.Context) error {
	var size int
	if err := r.Read("size", &size); err != nil {
		return err
	}
	n.out.SetSize(size)
	n.values = nil
	n.out.SetValues(nil)
	return nil
}

var (
	_ model.Node = (*Input[float64])(nil)
	_ TextSetter = (*Input[float64])(nil)
)
