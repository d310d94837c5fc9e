package archive

import (
	"encoding/json"
	"fmt"
)

// JSONWriter implements [Writer] on top of encoding/json. Values are encoded
// eagerly so type errors surface at the Write call, not at flush time.
// Output is deterministic: encoding/json sorts map keys.
type JSONWriter struct {
	fields map[string]any // json.RawMessage or *JSONWriter
}

// NewJSONWriter creates an empty JSON writer.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{fields: make(map[string]any)}
}

// Write encodes value under name.
func (w *JSONWriter) Write(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("write field %q: %w", name, err)
	}
	w.fields[name] = json.RawMessage(raw)
	return nil
}

// Nested opens a sub-object under name. Fields written to the returned
// writer appear inside that object.
func (w *JSONWriter) Nested(name string) (Writer, error) {
	child := NewJSONWriter()
	w.fields[name] = child
	return child, nil
}

// MarshalJSON encodes the accumulated fields as a JSON object.
func (w *JSONWriter) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.fields)
}

// Bytes returns the encoded JSON document.
func (w *JSONWriter) Bytes() ([]byte, error) {
	return w.MarshalJSON()
}

// JSONReader implements [Reader] over a JSON object produced by [JSONWriter].
type JSONReader struct {
	fields map[string]json.RawMessage
}

// NewJSONReader parses data, which must be a JSON object.
func NewJSONReader(data []byte) (*JSONReader, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse archive: %w", err)
	}
	return &JSONReader{fields: fields}, nil
}

// Read decodes the named field into out.
func (r *JSONReader) Read(name string, out any) error {
	raw, ok := r.fields[name]
	if !ok {
		return fmt.Errorf("field %q: %w", name, ErrMissingField)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("read field %q: %w", name, err)
	}
	return nil
}

// Nested returns a reader over the sub-object stored under name.
func (r *JSONReader) Nested(name string) (Reader, error) {
	raw, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("field %q: %w", name, ErrMissingField)
	}
	return NewJSONReader(raw)
}

// Has reports whether the named field is present.
func (r *JSONReader) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

var (
	_ Writer = (*JSONWriter)(nil)
	_ Reader = (*JSONReader)(nil)
)
