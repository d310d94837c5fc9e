package model

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNilNode is returned by [Model.Add] for a nil node.
	ErrNilNode = errors.New("nil node")

	// ErrNodeAlreadyAdded is returned by [Model.Add] when the node already
	// belongs to a model. A node has exactly one owning model for life.
	ErrNodeAlreadyAdded = errors.New("node already added to a model")

	// ErrUnknownSourceNode is returned by [Model.Add] when an input port
	// references a node that is not in this model. Since constructors add
	// nodes after their dependencies, hitting this means an input was wired
	// to a port from a different model, or left unbound.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownSourcePort is returned by [Model.Validate] when an input
	// references a port name its source node does not expose. This indicates
	// graph corruption.
	ErrUnknownSourcePort = errors.New("unknown source port")

	// ErrGraphHasCycle is returned by [Model.Validate] when a cycle is
	// detected. The Add protocol cannot create cycles, so this indicates
	// corruption via direct state manipulation.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrSizeMismatch is returned by node constructors when input ports
	// carry incompatible value counts for the requested operation.
	ErrSizeMismatch = errors.New("port size mismatch")
)

// Model owns a set of nodes and their connectivity. Nodes are kept in
// insertion order, which is dependency order by construction: a node can
// only be added after every node it reads from.
//
// The zero value is not usable; use [New].
type Model struct {
	nodes  []Node
	byID   map[NodeID]Node
	nextID NodeID
}

// New creates an empty model.
func New() *Model {
	return &Model{byID: make(map[NodeID]Node)}
}

// Add validates the node's input wiring, assigns it an ID, and takes
// ownership. Every input must be bound to an output port of a node already
// in this model; otherwise ErrUnknownSourceNode is returned and the node is
// not added. Node constructors call Add; application code rarely does.
func (m *Model) Add(n Node) error {
	if n == nil {
		return ErrNilNode
	}
	b := n.base()
	if b.id != 0 {
		return fmt.Errorf("node %d: %w", b.id, ErrNodeAlreadyAdded)
	}
	for _, in := range n.Inputs() {
		src := in.sourceBase()
		if src == nil {
			return fmt.Errorf("input %q is unbound: %w", in.Name(), ErrUnknownSourceNode)
		}
		owner, ok := m.byID[src.id]
		if !ok || owner.base() != src {
			return fmt.Errorf("input %q: %w", in.Name(), ErrUnknownSourceNode)
		}
	}
	m.nextID++
	b.id = m.nextID
	m.nodes = append(m.nodes, n)
	m.byID[b.id] = n
	return nil
}

// Nodes returns all nodes in dependency order. The returned slice is a
// copy; the nodes themselves are shared.
func (m *Model) Nodes() []Node { return slices.Clone(m.nodes) }

// Node returns the node with the given ID and true, or nil and false.
func (m *Model) Node(id NodeID) (Node, bool) {
	n, ok := m.byID[id]
	return n, ok
}

// Len returns the number of nodes in the model.
func (m *Model) Len() int { return len(m.nodes) }

// Compute runs every node's compute step in dependency order, so a node's
// inputs are always up to date before it runs. Computing an unchanged model
// twice yields identical port values.
func (m *Model) Compute() error {
	for _, n := range m.nodes {
		if err := n.Compute(); err != nil {
			return fmt.Errorf("compute node %d (%s): %w", n.ID(), n.RuntimeTypeName(), err)
		}
	}
	return nil
}

// Validate checks graph integrity: every input references an existing node
// and port within this model, and the graph is acyclic. The Add protocol
// maintains both invariants, so Validate is a corruption check, useful after
// deserializing data from untrusted sources.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (m *Model) Validate() error {
	if err := m.validateWiring(); err != nil {
		return err
	}
	return m.detectCycles()
}

func (m *Model) validateWiring() error {
	for _, n := range m.nodes {
		for _, in := range n.Inputs() {
			ref := in.Source()
			src, ok := m.byID[ref.Node]
			if !ok || src.base() != in.sourceBase() {
				return fmt.Errorf("node %d input %q: %w", n.ID(), in.Name(), ErrUnknownSourceNode)
			}
			if src.base().Output(ref.Port) == nil {
				return fmt.Errorf("node %d input %q references %d.%s: %w",
					n.ID(), in.Name(), ref.Node, ref.Port, ErrUnknownSourcePort)
			}
		}
	}
	return nil
}

func (m *Model) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int, len(m.nodes))
	var hasCycle bool

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		for _, in := range m.byID[id].Inputs() {
			switch color[in.Source().Node] {
			case white:
				dfs(in.Source().Node)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range m.byID {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
