package nodes

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

func TestConstantValues(t *testing.T) {
	m := model.New()
	n := NewConstant(m, 1.5, 2.5, 3.5)

	got := n.Values()
	want := []float64{1.5, 2.5, 3.5}
	if !slices.Equal(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}

	// The values surface on the output port after compute
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !slices.Equal(n.Output().Values(), want) {
		t.Errorf("port values = %v, want %v", n.Output().Values(), want)
	}
	if n.Output().Size() != 3 || n.Output().Len() != 3 {
		t.Errorf("Size/Len = %d/%d, want 3/3", n.Output().Size(), n.Output().Len())
	}
}

func TestConstantScalar(t *testing.T) {
	// A single value is indistinguishable from a one-element sequence
	m := model.New()
	n := NewConstant(m, 42)
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !slices.Equal(n.Output().Values(), []int{42}) {
		t.Errorf("scalar port = %v, want [42]", n.Output().Values())
	}
	if n.Output().Size() != 1 {
		t.Errorf("scalar Size = %d, want 1", n.Output().Size())
	}
}

func TestConstantEmpty(t *testing.T) {
	m := model.New()
	n := NewConstant[float64](m)
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if n.Output().Size() != 0 || n.Output().Len() != 0 {
		t.Errorf("empty constant Size/Len = %d/%d", n.Output().Size(), n.Output().Len())
	}
}

func TestConstantElementTypes(t *testing.T) {
	m := model.New()
	b := NewConstant(m, true, false)
	i := NewConstant(m, int64(-7))
	f := NewConstant(m, float32(0.5))
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !slices.Equal(b.Output().Values(), []bool{true, false}) {
		t.Errorf("bool values = %v", b.Output().Values())
	}
	if i.Output().Values()[0] != -7 {
		t.Errorf("int64 value = %v", i.Output().Values())
	}
	if f.Output().Values()[0] != 0.5 {
		t.Errorf("float32 value = %v", f.Output().Values())
	}
}

func TestConstantTypeNameStable(t *testing.T) {
	// The composite name is a persistence key; its exact spelling matters.
	if got := ConstantTypeName[float64](); got != "ConstantNode<double>" {
		t.Errorf("ConstantTypeName[float64] = %q, want ConstantNode<double>", got)
	}
	if got := ConstantTypeName[int](); got != "ConstantNode<int>" {
		t.Errorf("ConstantTypeName[int] = %q, want ConstantNode<int>", got)
	}

	m := model.New()
	n := NewConstant(m, 1.0)
	if n.RuntimeTypeName() != ConstantTypeName[float64]() {
		t.Error("instance and kind type names should agree")
	}
	if n.RuntimeTypeName() != NewConstant(m, 2.0).RuntimeTypeName() {
		t.Error("type name should not vary across instances")
	}
}

func TestConstantCopy(t *testing.T) {
	src := model.New()
	orig := NewConstant(src, 1.0, 2.0)

	tr := model.NewTransformer()
	dst, err := tr.CopyModel(src)
	if err != nil {
		t.Fatalf("CopyModel: %v", err)
	}

	if err := dst.Compute(); err != nil {
		t.Fatalf("copy Compute: %v", err)
	}
	clone := dst.Nodes()[0].(*Constant[float64])
	if !slices.Equal(clone.Values(), orig.Values()) {
		t.Errorf("copy values = %v, want %v", clone.Values(), orig.Values())
	}

	// Copies are distinct instances with distinct backing storage
	if clone == orig {
		t.Error("copy should be a new instance")
	}
	orig.values[0] = 99
	if clone.Values()[0] == 99 {
		t.Error("copy shares value storage with original")
	}
}

func TestConstantSetState(t *testing.T) {
	m := model.New()
	n := NewConstant(m, 1.0, 2.0)

	d := describe.New(ConstantTypeName[float64]())
	d.Add("values", describe.VectorTypeName(describe.TypeDouble), []float64{9, 8, 7})
	d.Add("size", describe.TypeInt, 3)
	if err := n.SetState(d, nil); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if !slices.Equal(n.Values(), []float64{9, 8, 7}) {
		t.Errorf("restored values = %v", n.Values())
	}
	if n.Output().Size() != 3 {
		t.Errorf("restored Size = %d, want 3", n.Output().Size())
	}
}

func TestConstantSetStateTypeMismatch(t *testing.T) {
	m := model.New()
	n := NewConstant(m, 1.0, 2.0)

	wrong := describe.New(ConstantTypeName[int]())
	wrong.Add("values", describe.VectorTypeName(describe.TypeInt), []int{5})
	err := n.SetState(wrong, nil)
	if !errors.Is(err, describe.ErrTypeMismatch) {
		t.Fatalf("SetState = %v, want describe.ErrTypeMismatch", err)
	}

	// Failed restore must not touch the node
	if !slices.Equal(n.Values(), []float64{1, 2}) {
		t.Errorf("values changed on failed SetState: %v", n.Values())
	}
}

func TestConstantSetStateMissingValues(t *testing.T) {
	m := model.New()
	n := NewConstant(m, 1.0)

	d := describe.New(ConstantTypeName[float64]())
	d.Add("size", describe.TypeInt, 1)
	if err := n.SetState(d, nil); !errors.Is(err, describe.ErrMissingField) {
		t.Errorf("SetState without values = %v, want describe.ErrMissingField", err)
	}
	if !slices.Equal(n.Values(), []float64{1}) {
		t.Errorf("values changed on failed SetState: %v", n.Values())
	}
}

func TestConstantDescription(t *testing.T) {
	m := model.New()
	n := NewConstant(m, 4.0, 5.0)

	d, err := n.Description()
	if err != nil {
		t.Fatalf("Description: %v", err)
	}
	if d.TypeName != "ConstantNode<double>" {
		t.Errorf("TypeName = %q", d.TypeName)
	}
	vals, err := describe.Value[[]float64](d, "values")
	if err != nil || !slices.Equal(vals, []float64{4, 5}) {
		t.Errorf("values field = %v, %v", vals, err)
	}
	size, err := describe.Value[int](d, "size")
	if err != nil || size != 2 {
		t.Errorf("size field = %d, %v", size, err)
	}

	// The snapshot is detached from the node's storage
	vals[0] = 0
	if n.Values()[0] != 4 {
		t.Error("Description should clone values")
	}
}

func TestConstantTypeDescriptionSchema(t *testing.T) {
	d := ConstantTypeDescription[float64]()
	if d.TypeName != "ConstantNode<double>" {
		t.Errorf("TypeName = %q", d.TypeName)
	}
	f, ok := d.Field("values")
	if !ok || f.TypeName != "vector<double>" {
		t.Errorf("values schema = %+v, %v", f, ok)
	}
	if !d.Has("size") {
		t.Error("schema should list size")
	}
}
