package describe

import "testing"

func TestElementTypeName(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{ElementTypeName[bool](), TypeBool},
		{ElementTypeName[int](), TypeInt},
		{ElementTypeName[int32](), TypeInt32},
		{ElementTypeName[int64](), TypeInt64},
		{ElementTypeName[float32](), TypeFloat},
		{ElementTypeName[float64](), TypeDouble},
		{ElementTypeName[string](), TypeString},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("ElementTypeName = %q, want %q", tt.got, tt.want)
		}
	}

	// Unregistered types fall back to unknown.
	type opaque struct{}
	if got := ElementTypeName[opaque](); got != TypeUnknown {
		t.Errorf("ElementTypeName[opaque] = %q, want %q", got, TypeUnknown)
	}
}

func TestCompositeTypeName(t *testing.T) {
	// Composite names must be stable; they are persisted in model files.
	if got := CompositeTypeName("ConstantNode", TypeDouble); got != "ConstantNode<double>" {
		t.Errorf("CompositeTypeName = %q, want %q", got, "ConstantNode<double>")
	}
	if got := VectorTypeName(TypeInt); got != "vector<int>" {
		t.Errorf("VectorTypeName = %q, want %q", got, "vector<int>")
	}
}
