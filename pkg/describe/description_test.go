package describe

import (
	"errors"
	"testing"
)

func TestObjectDescriptionFields(t *testing.T) {
	d := New("ConstantNode<double>")
	d.Add("values", VectorTypeName(TypeDouble), []float64{1, 2, 3})
	d.Add("size", TypeInt, 3)

	if d.TypeName != "ConstantNode<double>" {
		t.Errorf("TypeName = %q", d.TypeName)
	}
	if !d.Has("values") || !d.Has("size") {
		t.Error("added fields should be present")
	}
	if d.Has("missing") {
		t.Error("Has should be false for absent fields")
	}

	f, ok := d.Field("values")
	if !ok {
		t.Fatal("Field(values) not found")
	}
	if f.TypeName != "vector<double>" {
		t.Errorf("values TypeName = %q, want vector<double>", f.TypeName)
	}
}

func TestValue(t *testing.T) {
	d := New("InputNode<int>")
	d.Add("size", TypeInt, 4)

	size, err := Value[int](d, "size")
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if size != 4 {
		t.Errorf("size = %d, want 4", size)
	}

	// Missing field
	if _, err := Value[int](d, "count"); !errors.Is(err, ErrMissingField) {
		t.Errorf("missing field error = %v, want ErrMissingField", err)
	}

	// Wrong type
	if _, err := Value[string](d, "size"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("wrong type error = %v, want ErrTypeMismatch", err)
	}
}

func TestAddObject(t *testing.T) {
	ref := New("PortRef")
	ref.Add("node", TypeInt64, int64(7))
	ref.Add("port", TypeString, "output")

	d := New("BinaryOperationNode<double>")
	d.AddObject("input1", ref)

	f, ok := d.Field("input1")
	if !ok {
		t.Fatal("Field(input1) not found")
	}
	if f.Object == nil {
		t.Fatal("composite field should carry a nested description")
	}
	if f.TypeName != "PortRef" {
		t.Errorf("composite TypeName = %q, want PortRef", f.TypeName)
	}
	if node, err := Value[int64](f.Object, "node"); err != nil || node != 7 {
		t.Errorf("nested node = %d, %v", node, err)
	}
}

func TestFieldFirstEntryWins(t *testing.T) {
	d := New("X")
	d.Add("a", TypeInt, 1)
	d.Add("a", TypeInt, 2)

	v, err := Value[int](d, "a")
	if err != nil || v != 1 {
		t.Errorf("duplicate field lookup = %d, %v; want first entry 1", v, err)
	}
}
