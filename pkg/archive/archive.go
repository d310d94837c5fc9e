// Package archive defines the field-oriented serialization channel nodes
// write their state through. The channel is deliberately abstract: a node
// sees only named, typed fields and nested sub-objects, never the encoded
// byte format. The JSON implementation in this package is the default
// backend; alternative encodings only need to satisfy [Writer] and [Reader].
package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned by [Reader.Read] when the named field is
	// absent from the archived data.
	ErrMissingField = errors.New("missing required field")

	// ErrNoResolver is returned by [Context.Port] when port resolution is
	// requested outside a model-level load (no resolver installed).
	ErrNoResolver = errors.New("no port resolver in context")
)

// Writer is the serialization side of the channel. Write accepts primitives
// and sequences of primitives; Nested opens a sub-object for composite
// fields. Writing the same name twice overwrites the earlier value.
type Writer interface {
	Write(name string, value any) error
	Nested(name string) (Writer, error)
}

// Reader is the deserialization side of the channel. Read decodes the named
// field into out, which must be a non-nil pointer; it returns an error
// wrapping ErrMissingField when the field is absent. Has reports presence
// without decoding, for optional fields.
type Reader interface {
	Read(name string, out any) error
	Nested(name string) (Reader, error)
	Has(name string) bool
}

// Context carries the environment a node needs while deserializing. During a
// model-level load the loader installs ResolvePort, mapping a serialized
// (node id, output port name) reference to the already reconstructed port so
// nodes can rewire their inputs. Nodes with no inputs never consult it.
type Context struct {
	ResolvePort func(nodeID int64, port string) (any, error)
}

// Port resolves an upstream output port reference. The returned value is the
// reconstructed port; the caller asserts it to the concrete typed port.
func (c *Context) Port(nodeID int64, port string) (any, error) {
	if c == nil || c.ResolvePort == nil {
		return nil, fmt.Errorf("resolve port %d.%s: %w", nodeID, port, ErrNoResolver)
	}
	return c.ResolvePort(nodeID, port)
}
