package model

import (
	"errors"
	"slices"

	"github.com/matzehuels/portgraph/pkg/describe"
)

// Element is the set of types a port can carry.
type Element interface {
	~bool | ~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Numeric is the subset of Element closed under arithmetic. Node kinds that
// compute with their values (binary operations, reductions) are constrained
// to Numeric; value-carrying kinds (constants, inputs) accept any Element.
type Numeric interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// NodeID identifies a node within its owning model. IDs are assigned by
// [Model.Add] starting at 1; the zero value means "not yet added".
type NodeID int64

// PortRef identifies an output port by its owning node's ID and the port
// name. It is the key of the transformer's remapping table and the wire
// format for input references in serialized models.
type PortRef struct {
	Node NodeID
	Port string
}

// Port is the untyped view of a port, sufficient for inspection, rendering,
// and remapping. The typed views are [OutputPort] and [InputPort].
type Port interface {
	// NodeID returns the ID of the owning node (zero before the node is
	// added to a model).
	NodeID() NodeID
	// Name returns the port's logical name, unique within its node.
	Name() string
	// ElementType returns the canonical element type name (e.g. "double").
	ElementType() string
	// Size returns the declared number of values the port carries once
	// computed. Fixed at node construction; used for wiring validation.
	Size() int
	// Len returns the number of values the port currently carries
	// (0 before the first compute, Size afterwards).
	Len() int
	// Raw returns the current values as a slice of the element type.
	// The returned slice is a read-only view; callers must not modify it.
	Raw() any
}

// Input is the untyped view of an input port. An input never owns values; it
// refers to an upstream node's output port.
type Input interface {
	Port
	// Source identifies the upstream output port this input reads from.
	// The zero PortRef means the input is unbound.
	Source() PortRef

	// sourceBase returns the Base of the upstream port's owning node, so the
	// model container can verify wiring identity, not just IDs.
	sourceBase() *Base
}

// ErrNilSource is returned when binding an input port to a nil output port.
var ErrNilSource = errors.New("nil source port")

// OutputPort is a typed, named endpoint owned by a node. Its value sequence
// is populated exclusively by the owning node's Compute step; everyone else
// treats it as a passive container.
type OutputPort[T Element] struct {
	owner  *Base
	name   string
	size   int
	values []T
}

// NewOutputPort creates an output port owned by the node with the given
// base and registers it there. Called from node constructors only. size is
// the number of values the port will carry once computed.
func NewOutputPort[T Element](owner *Base, name string, size int) *OutputPort[T] {
	p := &OutputPort[T]{owner: owner, name: name, size: size}
	owner.registerOutput(p)
	return p
}

// NodeID returns the owning node's ID.
func (p *OutputPort[T]) NodeID() NodeID { return p.owner.id }

// Name returns the port name.
func (p *OutputPort[T]) Name() string { return p.name }

// ElementType returns the canonical element type name.
func (p *OutputPort[T]) ElementType() string { return describe.ElementTypeName[T]() }

// Size returns the declared value count.
func (p *OutputPort[T]) Size() int { return p.size }

// SetSize declares the port's value count. Called by node constructors and
// by deserialization when reconstructing port metadata; never during compute.
func (p *OutputPort[T]) SetSize(size int) { p.size = size }

// Len returns the number of values currently published.
func (p *OutputPort[T]) Len() int { return len(p.values) }

// Raw returns the current values as []T for untyped inspection.
func (p *OutputPort[T]) Raw() any { return p.values }

// Values returns the port's current values. The returned slice is a
// read-only view into the port; it may be empty before the first compute.
func (p *OutputPort[T]) Values() []T { return p.values }

// SetValues publishes values to the port. The slice is copied, so later
// mutation by the caller does not affect the port. Only the owning node's
// Compute step should call this.
func (p *OutputPort[T]) SetValues(values []T) {
	p.values = slices.Clone(values)
}

// Ref returns the port's identity within its model.
func (p *OutputPort[T]) Ref() PortRef { return PortRef{Node: p.owner.id, Port: p.name} }

// InputPort is a typed, non-owning reference to an upstream output port.
type InputPort[T Element] struct {
	owner  *Base
	name   string
	source *OutputPort[T]
}

// NewInputPort creates an input port owned by the node with the given base
// and registers it there. A nil source leaves the port unbound; Bind must be
// called before the owning node is added to a model.
func NewInputPort[T Element](owner *Base, name string, source *OutputPort[T]) *InputPort[T] {
	p := &InputPort[T]{owner: owner, name: name, source: source}
	owner.registerInput(p)
	return p
}

// Bind points the input at an upstream output port. Used by constructors and
// by deserialization, which reconstructs wiring after node creation.
func (p *InputPort[T]) Bind(source *OutputPort[T]) error {
	if source == nil {
		return ErrNilSource
	}
	p.source = source
	return nil
}

// NodeID returns the owning (downstream) node's ID.
func (p *InputPort[T]) NodeID() NodeID { return p.owner.id }

// Name returns the input's name, unique within its node.
func (p *InputPort[T]) Name() string { return p.name }

// ElementType returns the canonical element type name.
func (p *InputPort[T]) ElementType() string { return describe.ElementTypeName[T]() }

// Size returns the upstream port's declared value count, or 0 if unbound.
func (p *InputPort[T]) Size() int {
	if p.source == nil {
		return 0
	}
	return p.source.Size()
}

// Len returns the upstream port's current value count, or 0 if unbound.
func (p *InputPort[T]) Len() int {
	if p.source == nil {
		return 0
	}
	return p.source.Len()
}

// Raw returns the upstream port's values, or nil if unbound.
func (p *InputPort[T]) Raw() any {
	if p.source == nil {
		return nil
	}
	return p.source.Raw()
}

// Values returns the upstream port's current values, or nil if unbound.
func (p *InputPort[T]) Values() []T {
	if p.source == nil {
		return nil
	}
	return p.source.Values()
}

// Source identifies the upstream output port.
func (p *InputPort[T]) Source() PortRef {
	if p.source == nil {
		return PortRef{}
	}
	return p.source.Ref()
}

// SourcePort returns the upstream output port itself, or nil if unbound.
func (p *InputPort[T]) SourcePort() *OutputPort[T] { return p.source }

func (p *InputPort[T]) sourceBase() *Base {
	if p.source == nil {
		return nil
	}
	return p.source.owner
}

var (
	_ Port  = (*OutputPort[float64])(nil)
	_ Input = (*InputPort[float64])(nil)
)
