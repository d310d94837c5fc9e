package model

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/portgraph/pkg/archive"
	"github.com/matzehuels/portgraph/pkg/describe"
)

// sourceNode is a minimal zero-input test node emitting fixed values.
type sourceNode struct {
	Base
	out  *OutputPort[float64]
	vals []float64
	fail error
}

func newSourceNode(m *Model, vals ...float64) (*sourceNode, error) {
	n := &sourceNode{vals: slices.Clone(vals)}
	n.out = NewOutputPort[float64](&n.Base, "output", len(vals))
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *sourceNode) RuntimeTypeName() string { return "SourceNode<double>" }

func (n *sourceNode) Compute() error {
	if n.fail != nil {
		return n.fail
	}
	n.out.SetValues(n.vals)
	return nil
}

func (n *sourceNode) Copy(t *Transformer) error {
	nn, err := newSourceNode(t.Target(), n.vals...)
	if err != nil {
		return err
	}
	t.MapPort(n.out, nn.out)
	return nil
}

func (n *sourceNode) Description() (*describe.ObjectDescription, error) {
	d := describe.New(n.RuntimeTypeName())
	d.Add("values", describe.VectorTypeName(describe.TypeDouble), n.vals)
	return d, nil
}

func (n *sourceNode) SetState(*describe.ObjectDescription, *archive.Context) error { return nil }

func (n *sourceNode) Serialize(w archive.Writer) error { return w.Write("values", n.vals) }

func (n *sourceNode) Deserialize(r archive.Reader, _ *archive.Context) error {
	return r.Read("values", &n.vals)
}

// scaleNode is a one-input test node multiplying its input by a factor.
type scaleNode struct {
	Base
	in     *InputPort[float64]
	out    *OutputPort[float64]
	factor float64
}

func newScaleNode(m *Model, src *OutputPort[float64], factor float64) (*scaleNode, error) {
	n := &scaleNode{factor: factor}
	n.in = NewInputPort(&n.Base, "input", src)
	size := 0
	if src != nil {
		size = src.Size()
	}
	n.out = NewOutputPort[float64](&n.Base, "output", size)
	if err := m.Add(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *scaleNode) RuntimeTypeName() string { return "ScaleNode<double>" }

func (n *scaleNode) Compute() error {
	in := n.in.Values()
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * n.factor
	}
	n.out.SetValues(out)
	return nil
}

func (n *scaleNode) Copy(t *Transformer) error {
	src, err := CorrespondingOutput(t, n.in)
	if err != nil {
		return err
	}
	nn, err := newScaleNode(t.Target(), src, n.factor)
	if err != nil {
		return err
	}
	t.MapPort(n.out, nn.out)
	return nil
}

func (n *scaleNode) Description() (*describe.ObjectDescription, error) {
	d := describe.New(n.RuntimeTypeName())
	d.Add("factor", describe.TypeDouble, n.factor)
	return d, nil
}

func (n *scaleNode) SetState(*describe.ObjectDescription, *archive.Context) error { return nil }

func (n *scaleNode) Serialize(w archive.Writer) error { return w.Write("factor", n.factor) }

func (n *scaleNode) Deserialize(r archive.Reader, _ *archive.Context) error {
	return r.Read("factor", &n.factor)
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	m := New()
	a, err := newSourceNode(m, 1, 2)
	if err != nil {
		t.Fatalf("add source: %v", err)
	}
	b, err := newScaleNode(m, a.out, 2)
	if err != nil {
		t.Fatalf("add scale: %v", err)
	}

	if a.ID() != 1 || b.ID() != 2 {
		t.Errorf("IDs = %d, %d; want 1, 2", a.ID(), b.ID())
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	// Nodes come back in insertion (dependency) order
	order := m.Nodes()
	if order[0].ID() != 1 || order[1].ID() != 2 {
		t.Errorf("Nodes order: %d, %d", order[0].ID(), order[1].ID())
	}
}

func TestAddNil(t *testing.T) {
	m := New()
	if err := m.Add(nil); !errors.Is(err, ErrNilNode) {
		t.Errorf("Add(nil) = %v, want ErrNilNode", err)
	}
}

func TestAddTwice(t *testing.T) {
	m := New()
	n, err := newSourceNode(m, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Add(n); !errors.Is(err, ErrNodeAlreadyAdded) {
		t.Errorf("second Add = %v, want ErrNodeAlreadyAdded", err)
	}
}

func TestAddUnboundInput(t *testing.T) {
	m := New()
	if _, err := newScaleNode(m, nil, 2); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unbound input Add = %v, want ErrUnknownSourceNode", err)
	}
	if m.Len() != 0 {
		t.Errorf("failed Add should not grow the model: Len = %d", m.Len())
	}
}

func TestAddForeignSource(t *testing.T) {
	m1 := New()
	src, err := newSourceNode(m1, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Wiring across models is rejected
	m2 := New()
	if _, err := newScaleNode(m2, src.out, 2); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("cross-model Add = %v, want ErrUnknownSourceNode", err)
	}
}

func TestComputeDependencyOrder(t *testing.T) {
	m := New()
	src, _ := newSourceNode(m, 1, 2, 3)
	mid, _ := newScaleNode(m, src.out, 2)
	end, _ := newScaleNode(m, mid.out, 10)

	if err := m.Compute(); err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	want := []float64{20, 40, 60}
	got := end.out.Values()
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Computing again without changes yields identical results
	if err := m.Compute(); err != nil {
		t.Fatalf("second Compute error: %v", err)
	}
	for i := range want {
		if end.out.Values()[i] != want[i] {
			t.Errorf("second compute changed values[%d]", i)
		}
	}
}

func TestComputeErrorNamesNode(t *testing.T) {
	m := New()
	src, _ := newSourceNode(m, 1)
	boom := errors.New("boom")
	src.fail = boom

	err := m.Compute()
	if !errors.Is(err, boom) {
		t.Fatalf("Compute = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "SourceNode<double>") {
		t.Errorf("error should name the failing node type: %v", err)
	}
}

func TestValidate(t *testing.T) {
	m := New()
	src, _ := newSourceNode(m, 1)
	a, _ := newScaleNode(m, src.out, 2)
	b, _ := newScaleNode(m, a.out, 3)

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate on sound model: %v", err)
	}

	// Force a cycle by rebinding an input downstream
	if err := a.in.Bind(b.out); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := m.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate on cyclic model = %v, want ErrGraphHasCycle", err)
	}
}

func TestOutputPortValuesAreIsolated(t *testing.T) {
	m := New()
	src, _ := newSourceNode(m, 1, 2)
	if err := m.Compute(); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	vals := []float64{9, 9}
	src.out.SetValues(vals)
	vals[0] = 0
	if src.out.Values()[0] != 9 {
		t.Error("SetValues should clone the given slice")
	}
}

func TestInputSourcePort(t *testing.T) {
	m := New()
	src, _ := newSourceNode(m, 1, 2)
	other, _ := newSourceNode(m, 3)
	sc, _ := newScaleNode(m, src.out, 2)

	// SourcePort and Source agree on the upstream identity
	if sc.in.SourcePort() != src.out {
		t.Error("SourcePort should return the bound upstream port")
	}
	if got := sc.in.Source(); got != src.out.Ref() {
		t.Errorf("Source = %v, want %v", got, src.out.Ref())
	}

	// Rebinding follows the new upstream
	if err := sc.in.Bind(other.out); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if sc.in.SourcePort() != other.out {
		t.Error("SourcePort should follow a rebound input")
	}

	unbound := &InputPort[float64]{}
	if unbound.SourcePort() != nil {
		t.Error("SourcePort on an unbound input should be nil")
	}
}
