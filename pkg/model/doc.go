// Package model defines the core intermediate representation for
// computational graphs: typed ports, the node contract, the model container,
// and the transformer that copies graphs node by node.
//
// A model is a directed acyclic graph of nodes. Each node owns one or more
// typed output ports and holds non-owning references to upstream output
// ports as its inputs. Nodes are strongly typed internally (generic over
// their element type) and interact with the rest of the system through the
// [Node] interface, so graph copying, execution, and persistence never need
// a universal data representation.
//
// # Building models
//
// Nodes are created by constructors in the nodes package, which wire inputs
// and add the node to the model in one step. Because a constructor can only
// reference output ports of nodes already in the model, node order is
// dependency order by construction and cycles cannot be formed.
//
//	m := model.New()
//	a := nodes.NewConstant(m, 1.0, 2.0)
//	b := nodes.NewConstant(m, 3.0, 4.0)
//	sum, err := nodes.NewBinaryOp(m, a.Output(), b.Output(), nodes.OpAdd)
//
// # Transformation
//
// A [Transformer] produces a new model from an existing one by visiting
// nodes in dependency order and asking each to copy itself. The transformer
// keeps a remapping table from original output ports to their replacements;
// a node's Copy implementation resolves its input wiring through that table
// and registers its own new outputs in it.
//
// # Concurrency
//
// A model is not safe for concurrent use without external synchronization.
// Compute, copy, serialize, and deserialize are synchronous and are driven
// in strict dependency order by a single goroutine.
package model
