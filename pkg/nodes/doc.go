// Package nodes implements the built-in node kinds of the model IR:
// constants, model inputs and outputs, elementwise binary operations, and
// sum reductions. It is not a complete instruction set; it is the reference
// set every additional kind is written against.
//
// Every kind follows the same pattern:
//
//   - a generic struct embedding model.Base, strongly typed over its
//     element type, with ports created at construction
//   - a public constructor that wires inputs and adds the node to a model
//   - an internal zero-argument constructor used by the describe registry
//     to create empty instances for deserialization
//   - Compute, Copy, Description/SetState, and Serialize/Deserialize
//     implementations satisfying the model.Node contract
//
// Each kind registers itself under its composite type name (for example
// "ConstantNode<double>") for every supported element type at init time, so
// serialized models can be reconstructed without language-level reflection.
package nodes
