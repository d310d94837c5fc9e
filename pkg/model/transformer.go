package model

import (
	"errors"
	"fmt"

	"github.com/matzehuels/portgraph/pkg/describe"
)

// ErrUnresolvedReference is returned when a copy step asks for the
// replacement of a port that has not been copied yet. Because the
// transformer visits nodes in dependency order, this signals a
// traversal-order bug (or a cycle) and is fatal to the traversal, not a
// recoverable data error.
var ErrUnresolvedReference = errors.New("unresolved port reference")

// Transformer drives graph rewriting: it walks a source model in dependency
// order and asks each node to copy itself into the target model. The
// remapping table from original output ports to their replacements is built
// incrementally, so a node copying itself can always resolve the new
// versions of its upstream dependencies.
//
// The source model is never mutated.
type Transformer struct {
	target  *Model
	portMap map[PortRef]Port
}

// NewTransformer creates a transformer with an empty target model.
func NewTransformer() *Transformer {
	return &Transformer{
		target:  New(),
		portMap: make(map[PortRef]Port),
	}
}

// Target returns the model being constructed. Node Copy implementations
// construct their replacements in it.
func (t *Transformer) Target() *Model { return t.target }

// CopyModel copies every node of src into the target model, in dependency
// order, and returns the target. Each node's Copy decides what it becomes
// in the new graph: an identical clone, a rewritten subgraph, or anything
// else that registers replacements for its output ports.
func (t *Transformer) CopyModel(src *Model) (*Model, error) {
	for _, n := range src.Nodes() {
		if err := n.Copy(t); err != nil {
			return nil, fmt.Errorf("copy node %d (%s): %w", n.ID(), n.RuntimeTypeName(), err)
		}
	}
	return t.target, nil
}

// MapPort records replacement as the new version of original. Called by a
// node's Copy step for each of its output ports.
func (t *Transformer) MapPort(original, replacement Port) {
	t.portMap[PortRef{Node: original.NodeID(), Port: original.Name()}] = replacement
}

// MappedPort returns the replacement registered for ref, or
// ErrUnresolvedReference if the owning node has not been copied yet.
func (t *Transformer) MappedPort(ref PortRef) (Port, error) {
	p, ok := t.portMap[ref]
	if !ok {
		return nil, fmt.Errorf("port %d.%s: %w", ref.Node, ref.Port, ErrUnresolvedReference)
	}
	return p, nil
}

// CorrespondingOutput resolves the replacement of the output port an input
// reads from, typed. It fails with ErrUnresolvedReference if the upstream
// node has not been copied, and with describe.ErrTypeMismatch if the
// replacement carries a different element type.
func CorrespondingOutput[T Element](t *Transformer, in *InputPort[T]) (*OutputPort[T], error) {
	p, err := t.MappedPort(in.Source())
	if err != nil {
		return nil, err
	}
	out, ok := p.(*OutputPort[T])
	if !ok {
		return nil, fmt.Errorf("port %d.%s replacement carries %s, want %s: %w",
			in.Source().Node, in.Source().Port, p.ElementType(), in.ElementType(), describe.ErrTypeMismatch)
	}
	return out, nil
}
