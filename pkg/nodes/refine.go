package nodes

import (
	"fmt"

	"github.com/matzehuels/portgraph/pkg/model"
)

// resultMarker identifies node kinds whose presence designates model
// results. Only [Output] implements it.
type resultMarker interface{ isModelResult() }

// Refine copies m into a fresh model, dropping nodes that cannot reach any
// output node. A model without output nodes has no designated results, so it
// is copied unchanged.
func Refine(m *model.Model) (*model.Model, error) {
	keep := reachableFromOutputs(m)
	if keep == nil {
		t := model.NewTransformer()
		return t.CopyModel(m)
	}

	t := model.NewTransformer()
	for _, n := range m.Nodes() {
		if !keep[n.ID()] {
			continue
		}
		if err := n.Copy(t); err != nil {
			return nil, fmt.Errorf("copy node %d (%s): %w", n.ID(), n.RuntimeTypeName(), err)
		}
	}
	return t.Target(), nil
}

// reachableFromOutputs returns the set of node IDs that some output node
// depends on, or nil when the model has no output nodes.
func reachableFromOutputs(m *model.Model) map[model.NodeID]bool {
	var roots []model.Node
	for _, n := range m.Nodes() {
		if _, ok := n.(resultMarker); ok {
			roots = append(roots, n)
		}
	}
	if len(roots) == 0 {
		return nil
	}

	keep := make(map[model.NodeID]bool)
	var visit func(n model.Node)
	visit = func(n model.Node) {
		if keep[n.ID()] {
			return
		}
		keep[n.ID()] = true
		for _, in := range n.Inputs() {
			src, ok := m.Node(in.Source().Node)
			if ok {
				visit(src)
			}
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return keep
}
