package nodes

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/portgraph/pkg/model"
)

func TestBinaryOpCompute(t *testing.T) {
	tests := []struct {
		op   Operation
		want []float64
	}{
		{OpAdd, []float64{5, 9}},
		{OpSubtract, []float64{3, 3}},
		{OpMultiply, []float64{4, 18}},
		{OpDivide, []float64{4, 2}},
	}
	for _, tt := range tests {
		m := model.New()
		left := NewConstant(m, 4.0, 6.0)
		right := NewConstant(m, 1.0, 3.0)
		n, err := NewBinaryOp(m, left.Output(), right.Output(), tt.op)
		if err != nil {
			t.Fatalf("%s: NewBinaryOp: %v", tt.op, err)
		}
		if err := m.Compute(); err != nil {
			t.Fatalf("%s: Compute: %v", tt.op, err)
		}
		if !slices.Equal(n.Output().Values(), tt.want) {
			t.Errorf("%s = %v, want %v", tt.op, n.Output().Values(), tt.want)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	// Recomputing with unchanged inputs yields identical values
	m := model.New()
	left := NewConstant(m, 2.0, 4.0)
	right := NewConstant(m, 3.0, 5.0)
	n, err := NewBinaryOp(m, left.Output(), right.Output(), OpMultiply)
	if err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}

	if err := m.Compute(); err != nil {
		t.Fatalf("first Compute: %v", err)
	}
	first := slices.Clone(n.Output().Values())
	if want := []float64{6, 20}; !slices.Equal(first, want) {
		t.Fatalf("first Compute = %v, want %v", first, want)
	}

	if err := m.Compute(); err != nil {
		t.Fatalf("second Compute: %v", err)
	}
	if got := n.Output().Values(); !slices.Equal(got, first) {
		t.Errorf("second Compute = %v, want %v", got, first)
	}
}

func TestBinaryOpIntegerDivideByZero(t *testing.T) {
	m := model.New()
	left := NewConstant(m, 6, 1)
	right := NewConstant(m, 2, 0)
	if _, err := NewBinaryOp(m, left.Output(), right.Output(), OpDivide); err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}
	if err := m.Compute(); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("Compute = %v, want ErrDivideByZero", err)
	}
}

func TestBinaryOpFloatDivideByZero(t *testing.T) {
	// Floating-point division follows IEEE semantics
	m := model.New()
	left := NewConstant(m, 1.0, -1.0, 0.0)
	right := NewConstant(m, 0.0, 0.0, 0.0)
	n, err := NewBinaryOp(m, left.Output(), right.Output(), OpDivide)
	if err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	got := n.Output().Values()
	if !math.IsInf(got[0], 1) || !math.IsInf(got[1], -1) || !math.IsNaN(got[2]) {
		t.Errorf("float division = %v, want [+Inf -Inf NaN]", got)
	}
}

func TestBinaryOpSizeMismatch(t *testing.T) {
	m := model.New()
	left := NewConstant(m, 1.0, 2.0)
	right := NewConstant(m, 1.0)
	if _, err := NewBinaryOp(m, left.Output(), right.Output(), OpAdd); !errors.Is(err, model.ErrSizeMismatch) {
		t.Errorf("NewBinaryOp = %v, want ErrSizeMismatch", err)
	}
	if m.Len() != 2 {
		t.Errorf("failed construction should not grow the model: Len = %d", m.Len())
	}
}

func TestBinaryOpBadArguments(t *testing.T) {
	m := model.New()
	c := NewConstant(m, 1.0)

	if _, err := NewBinaryOp[float64](m, nil, c.Output(), OpAdd); !errors.Is(err, model.ErrNilSource) {
		t.Errorf("nil left = %v, want ErrNilSource", err)
	}
	if _, err := NewBinaryOp(m, c.Output(), c.Output(), Operation(99)); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("bad op = %v, want ErrUnknownOperation", err)
	}
}

func TestOperationNames(t *testing.T) {
	ops := []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}
	for _, op := range ops {
		parsed, err := ParseOperation(op.String())
		if err != nil {
			t.Errorf("ParseOperation(%q): %v", op.String(), err)
		}
		if parsed != op {
			t.Errorf("round trip %v -> %q -> %v", op, op.String(), parsed)
		}
	}
	if _, err := ParseOperation("modulo"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("ParseOperation(modulo) = %v, want ErrUnknownOperation", err)
	}
}

func TestBinaryOpCopy(t *testing.T) {
	src := model.New()
	left := NewConstant(src, 2.0)
	right := NewConstant(src, 3.0)
	orig, err := NewBinaryOp(src, left.Output(), right.Output(), OpMultiply)
	if err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}

	tr := model.NewTransformer()
	dst, err := tr.CopyModel(src)
	if err != nil {
		t.Fatalf("CopyModel: %v", err)
	}
	if err := dst.Compute(); err != nil {
		t.Fatalf("copy Compute: %v", err)
	}

	clone := dst.Nodes()[2].(*BinaryOp[float64])
	if clone == orig {
		t.Error("copy should be a new instance")
	}
	if clone.Op() != OpMultiply {
		t.Errorf("copy op = %v", clone.Op())
	}
	if got := clone.Output().Values(); got[0] != 6 {
		t.Errorf("copy result = %v, want [6]", got)
	}

	// The copy reads from the copied constants, not the originals
	if clone.left.Source().Node != dst.Nodes()[0].ID() {
		t.Error("copy input should be rewired to the copied source")
	}
}

func TestBinaryOpCopyOutOfOrder(t *testing.T) {
	src := model.New()
	left := NewConstant(src, 2.0)
	right := NewConstant(src, 3.0)
	n, err := NewBinaryOp(src, left.Output(), right.Output(), OpAdd)
	if err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}

	// Copying before the upstream constants is a traversal-order bug and fatal
	tr := model.NewTransformer()
	if err := n.Copy(tr); !errors.Is(err, model.ErrUnresolvedReference) {
		t.Errorf("out-of-order Copy = %v, want ErrUnresolvedReference", err)
	}
}
