package nodes

import (
	"github.com/matzehuels/portgraph/pkg/model"
	"github.com/matzehuels/portgraph/pkg/predictors"
)

// ConstantFromPredictor adds a constant node representing the predictor to
// the transformer's target model and returns it. The predictor's values are
// copied verbatim.
//
// All predictor adapters share this signature. The input argument is what
// the predictor would read from; a constant predictor ignores its input, so
// it is not wired to anything and may be nil.
func ConstantFromPredictor(input *model.OutputPort[float64], p predictors.ConstantPredictor, t *model.Transformer) *Constant[float64] {
	_ = input
	return NewConstant(t.Target(), p.Values()...)
}
