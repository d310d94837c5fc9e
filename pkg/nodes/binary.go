package nodes

import (
	"errors"
	"fmt"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

var (
	// ErrUnknownOperation is returned for an operation outside the defined
	// set, at construction or when deserializing a corrupted model.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrDivideByZero is returned by Compute when an integer division hits a
	// zero divisor. Floating-point division follows IEEE semantics instead.
	ErrDivideByZero = errors.New("integer divide by zero")
)

// Operation selects the elementwise function a BinaryOp applies.
type Operation int

const (
	OpAdd Operation = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the operation's serialized name.
func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return "unknown"
	}
}

// ParseOperation maps a serialized name back to an Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "add":
		return OpAdd, nil
	case "subtract":
		return OpSubtract, nil
	case "multiply":
		return OpMultiply, nil
	case "divide":
		return OpDivide, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownOperation)
	}
}

// Input port names of the binary kind.
const (
	leftPortName  = "input1"
	rightPortName = "input2"
)

const binaryOpBaseName = "BinaryOperationNode"

// BinaryOpTypeName returns the composite type name of the binary operation
// kind for an element type, e.g. "BinaryOperationNode<double>".
func BinaryOpTypeName[T model.Numeric]() string {
	return describe.CompositeTypeName(binaryOpBaseName, describe.ElementTypeName[T]())
}

// BinaryOp applies an elementwise arithmetic operation to two input ports of
// equal size and publishes the result on its output port.
type BinaryOp[T model.Numeric] struct {
	model.Base
	left  *model.InputPort[T]
	right *model.InputPort[T]
	out   *model.OutputPort[T]
	op    Operation
}

func newBinaryOp[T model.Numeric]() *BinaryOp[T] {
	n := &BinaryOp[T]{}
	n.left = model.NewInputPort[T](&n.Base, leftPortName, nil)
	n.right = model.NewInputPort[T](&n.Base, rightPortName, nil)
	n.out = model.NewOutputPort[T](&n.Base, OutputPortName, 0)
	return n
}

// NewBinaryOp creates a binary operation node reading from the two given
// output ports and adds it to m. The ports must belong to nodes already in m
// and must declare the same size; mismatched sizes are a wiring error, not
// something Compute coerces later.
func NewBinaryOp[T model.Numeric](m *model.Model, left, right *model.OutputPort[T], op Operation) (*BinaryOp[T], error) {
	if left == nil || right == nil {
		return nil, model.ErrNilSource
	}
	if op < OpAdd || op > OpDivide {
		return nil, fmt.Errorf("operation %d: %w", op, ErrUnknownOperation)
	}
	if left.Size() != right.Size() {
		return nil, fmt.Errorf("left carries %d values, right %d: %w", left.Size(), right.Size(), model.ErrSizeMismatch)
	}
	n := newBinaryOp[T]()
	n.op = op
	if err := n.left.Bind(left); err != nil {
		return nil, err
	}
	if err := n.right.Bind(right); err != nil {
		return nil, err
	}
	n.out.SetSize(left.Size())
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Output returns the node's output port.
func (n *BinaryOp[T]) Output() *model.OutputPort[T] { return n.out }

// Op returns the configured operation.
func (n *BinaryOp[T]) Op() Operation { return n.op }

// RuntimeTypeName returns the node's composite type name.
func (n *BinaryOp[T]) RuntimeTypeName() string { return BinaryOpTypeName[T]() }

// Compute applies the operation elementwise to the current input values.
func (n *BinaryOp[T]) Compute() error {
	left, right := n.left.Values(), n.right.Values()
	if len(left) != len(right) {
		return fmt.Errorf("left carries %d values, right %d: %w", len(left), len(right), model.ErrSizeMismatch)
	}

	elem := describe.ElementTypeName[T]()
	isFloat := elem == describe.TypeFloat || elem == describe.TypeDouble

	result := make([]T, len(left))
	for i := range left {
		switch n.op {
		case OpAdd:
			result[i] = left[i] + right[i]
		case OpSubtract:
			result[i] = left[i] - right[i]
		case OpMultiply:
			result[i] = left[i] * right[i]
		case OpDivide:
			if right[i] == 0 && !isFloat {
				return fmt.Errorf("element %d: %w", i, ErrDivideByZero)
			}
			result[i] = left[i] / right[i]
		default:
			return fmt.Errorf("operation %d: %w", n.op, ErrUnknownOperation)
		}
	}
	n.out.SetValues(result)
	return nil
}

// Copy resolves the new versions of both inputs through the transformer's
// remapping table, creates the copy wired to them, and registers its output
// as the replacement for this node's output.
func (n *BinaryOp[T]) Copy(t *model.Transformer) error {
	left, err := model.CorrespondingOutput(t, n.left)
	if err != nil {
		return err
	}
	right, err := model.CorrespondingOutput(t, n.right)
	if err != nil {
		return err
	}
	nn, err := NewBinaryOp(t.Target(), left, right, n.op)
	if err != nil {
		return err
	}
	t.MapPort(n.out, nn.out)
	return nil
}

// BinaryOpTypeDescription returns the schema of the binary kind's persistent
// fields for an element type.
func BinaryOpTypeDescription[T model.Numeric]() *describe.ObjectDescription {
	d := describe.New(BinaryOpTypeName[T]())
	d.Add("operation", describe.TypeString, nil)
	d.AddObject(leftPortName, describe.New(portRefTypeName))
	d.AddObject(rightPortName, describe.New(portRefTypeName))
	return d
}

// Description returns a snapshot of the node's persistent fields, including
// the input wiring.
func (n *BinaryOp[T]) Description() (*describe.ObjectDescription, error) {
	d := describe.New(BinaryOpTypeName[T]())
	d.Add("operation", describe.TypeString, n.op.String())
	describePortRef(d, leftPortName, n.left.Source())
	describePortRef(d, rightPortName, n.right.Source())
	return d, nil
}

// SetState restores the node's fields from a description, resolving input
// wiring through the context. Nothing is mutated on failure.
func (n *BinaryOp[T]) SetState(d *describe.ObjectDescription, ctx *archive.Context) error {
	if d.TypeName != n.RuntimeTypeName() {
		return fmt.Errorf("description %q applied to %q: %w", d.TypeName, n.RuntimeTypeName(), describe.ErrTypeMismatch)
	}
	opName, err := describe.Value[string](d, "operation")
	if err != nil {
		return fmt.Errorf("field %q: %w", "operation", err)
	}
	op, err := ParseOperation(opName)
	if err != nil {
		return err
	}
	left, right, err := n.resolveInputs(ctx,
		func(name string) (int64, string, error) { return descriptionPortRef(d, name) })
	if err != nil {
		return err
	}
	n.applyState(op, left, right)
	return nil
}

// Serialize writes the operation and the input wiring.
func (n *BinaryOp[T]) Serialize(w archive.Writer) error {
	if err := w.Write("operation", n.op.String()); err != nil {
		return err
	}
	if err := writePortRef(w, leftPortName, n.left.Source()); err != nil {
		return err
	}
	return writePortRef(w, rightPortName, n.right.Source())
}

// Deserialize fully overwrites the node's fields from the channel, resolving
// input wiring through the context.
func (n *BinaryOp[T]) Deserialize(r archive.Reader, ctx *archive.Context) error {
	var opName string
	if err := r.Read("operation", &opName); err != nil {
		return err
	}
	op, err := ParseOperation(opName)
	if err != nil {
		return err
	}
	left, right, err := n.resolveInputs(ctx,
		func(name string) (int64, string, error) { return readPortRef(r, name) })
	if err != nil {
		return err
	}
	n.applyState(op, left, right)
	return nil
}

// resolveInputs looks up both upstream ports using refFn to extract the
// serialized references. Resolution happens before any mutation so a failed
// restore leaves the node untouched.
func (n *BinaryOp[T]) resolveInputs(ctx *archive.Context, refFn func(name string) (int64, string, error)) (*model.OutputPort[T], *model.OutputPort[T], error) {
	leftNode, leftPort, err := refFn(leftPortName)
	if err != nil {
		return nil, nil, err
	}
	rightNode, rightPort, err := refFn(rightPortName)
	if err != nil {
		return nil, nil, err
	}
	left, err := resolveSource[T](ctx, leftNode, leftPort)
	if err != nil {
		return nil, nil, err
	}
	right, err := resolveSource[T](ctx, rightNode, rightPort)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (n *BinaryOp[T]) applyState(op Operation, left, right *model.OutputPort[T]) {
	n.op = op
	_ = n.left.Bind(left)
	_ = n.right.Bind(right)
	n.out.SetSize(left.Size())
	n.out.SetValues(nil)
}

var _ model.Node = (*BinaryOp[float64])(nil)
