package model

import (
	"slices"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
)

// Node is the polymorphic contract every node kind implements. Concrete
// kinds live in the nodes package, embed [Base], and stay strongly typed
// internally; this interface is the dispatch boundary the model container,
// the transformer, and persistence work against.
type Node interface {
	// ID returns the node's ID within its model (zero before Add).
	ID() NodeID

	// Inputs returns the node's input port references in declaration order.
	Inputs() []Input

	// Outputs returns the node's owned output ports in declaration order.
	// Every node exposes at least one output port, even zero-input kinds.
	Outputs() []Port

	// RuntimeTypeName returns the composite type name of the concrete kind
	// and element type (e.g. "ConstantNode<double>"). It is the registry and
	// serialization key substituting for runtime type identification.
	RuntimeTypeName() string

	// Compute populates the node's output ports from its input ports'
	// current values. It must be pure given those values: computing twice
	// with unchanged inputs yields identical outputs.
	Compute() error

	// Copy creates a copy of this node in the transformer's target model,
	// wired to the already-copied versions of its inputs, and registers the
	// new output ports in the transformer's remapping table.
	Copy(t *Transformer) error

	// Description returns an instance snapshot of the node's persistent
	// fields, including input wiring for kinds that have inputs.
	Description() (*describe.ObjectDescription, error)

	// SetState restores the node's fields from a description previously
	// produced by Description. It fails with describe.ErrTypeMismatch if the
	// description's declared type name differs from the node's own, and with
	// describe.ErrMissingField if a required field is absent. No fields are
	// mutated on failure.
	SetState(d *describe.ObjectDescription, ctx *archive.Context) error

	// Serialize writes the node's persistent fields through the channel.
	Serialize(w archive.Writer) error

	// Deserialize reads the node's persistent fields from the channel,
	// fully overwriting prior state. It is idempotent, not additive.
	Deserialize(r archive.Reader, ctx *archive.Context) error

	// base exposes the embedded Base to the model package so the container
	// can assign IDs and verify wiring. Satisfied by embedding Base.
	base() *Base
}

// Base carries the state common to all node kinds: the model-assigned ID and
// the registered port lists. Node implementations embed it by value; ports
// register themselves during construction via NewOutputPort/NewInputPort.
type Base struct {
	id      NodeID
	inputs  []Input
	outputs []Port
}

func (b *Base) base() *Base { return b }

// ID returns the node's ID within its model (zero before Add).
func (b *Base) ID() NodeID { return b.id }

// Inputs returns the registered input ports in registration order.
func (b *Base) Inputs() []Input { return slices.Clone(b.inputs) }

// Outputs returns the registered output ports in registration order.
func (b *Base) Outputs() []Port { return slices.Clone(b.outputs) }

// Output returns the named output port, or nil if the node has none by that
// name. Used when resolving serialized port references.
func (b *Base) Output(name string) Port {
	for _, p := range b.outputs {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (b *Base) registerInput(p Input) { b.inputs = append(b.inputs, p) }

func (b *Base) registerOutput(p Port) { b.outputs = append(b.outputs, p) }
