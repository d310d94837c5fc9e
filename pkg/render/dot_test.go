package render

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/matzehuels/portgraph/pkg/model"
	"github.com/matzehuels/portgraph/pkg/nodes"
)

// testModel builds a small graph covering every edge shape: two constants
// feeding a binary op, summed, marked as output.
func testModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	a := nodes.NewConstant(m, 1.0, 2.0)
	b := nodes.NewConstant(m, 3.0, 4.0)
	add, err := nodes.NewBinaryOp(m, a.Output(), b.Output(), nodes.OpAdd)
	if err != nil {
		t.Fatalf("NewBinaryOp: %v", err)
	}
	sum, err := nodes.NewSum(m, add.Output())
	if err != nil {
		t.Fatalf("NewSum: %v", err)
	}
	if _, err := nodes.NewOutput(m, sum.Output()); err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	return m
}

func TestToDOT(t *testing.T) {
	m := testModel(t)
	g := goldie.New(t)

	g.Assert(t, "simple", []byte(ToDOT(m, Options{})))
	g.Assert(t, "detailed", []byte(ToDOT(m, Options{Detailed: true})))
}

func TestToDOTDeterministic(t *testing.T) {
	m := testModel(t)
	d1 := ToDOT(m, Options{Detailed: true})
	d2 := ToDOT(m, Options{Detailed: true})
	if d1 != d2 {
		t.Error("ToDOT should be deterministic")
	}
}

func TestToDOTStructure(t *testing.T) {
	dot := ToDOT(testModel(t), Options{})

	// Every node and every wire appears exactly once
	for _, want := range []string{
		`1 [label="1: ConstantNode<double>"]`,
		`3 [label="3: BinaryOperationNode<double>"]`,
		`1 -> 3 [label="input1"]`,
		`2 -> 3 [label="input2"]`,
		`3 -> 4 [label="input"]`,
		`4 -> 5 [label="input"]`,
	} {
		if strings.Count(dot, want) != 1 {
			t.Errorf("DOT should contain %q exactly once:\n%s", want, dot)
		}
	}
}
