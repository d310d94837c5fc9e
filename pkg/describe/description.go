package describe

import "errors"

var (
	// ErrTypeMismatch is returned when a description's declared type name does
	// not match the type it is being applied to, or when a field holds a value
	// of an unexpected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingField is returned when a required field is absent from a
	// description. Unknown extra fields are tolerated for forward
	// compatibility; missing required fields are not.
	ErrMissingField = errors.New("missing required field")
)

// Field is a single named entry in an object description. Primitive and
// sequence fields carry their value directly; composite fields carry a nested
// description in Object and leave Value nil.
type Field struct {
	Name     string
	TypeName string
	Value    any
	Object   *ObjectDescription
}

// ObjectDescription is a flat, ordered description of an object's persistent
// state: the declaring type's composite name plus its fields. It is produced
// by a node on demand and consumed to restore a freshly constructed node of
// the same concrete type.
//
// Round-tripping a node through its description must reproduce observably
// identical behavior; omitting a field that influences compute output is a
// correctness bug.
type ObjectDescription struct {
	TypeName string
	Fields   []Field
}

// New creates an empty description for the given composite type name.
func New(typeName string) *ObjectDescription {
	return &ObjectDescription{TypeName: typeName}
}

// Add appends a primitive or sequence field.
func (d *ObjectDescription) Add(name, typeName string, value any) {
	d.Fields = append(d.Fields, Field{Name: name, TypeName: typeName, Value: value})
}

// AddObject appends a composite field holding a nested description.
func (d *ObjectDescription) AddObject(name string, obj *ObjectDescription) {
	typeName := TypeUnknown
	if obj != nil {
		typeName = obj.TypeName
	}
	d.Fields = append(d.Fields, Field{Name: name, TypeName: typeName, Object: obj})
}

// Has reports whether a field with the given name is present.
func (d *ObjectDescription) Has(name string) bool {
	_, ok := d.Field(name)
	return ok
}

// Field returns the named field. If the same name was added more than once,
// the first entry wins.
func (d *ObjectDescription) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Value extracts the named field's value as type V. It returns
// ErrMissingField if the field is absent and ErrTypeMismatch if the stored
// value has a different type.
func Value[V any](d *ObjectDescription, name string) (V, error) {
	var zero V
	f, ok := d.Field(name)
	if !ok {
		return zero, ErrMissingField
	}
	v, ok := f.Value.(V)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return v, nil
}
