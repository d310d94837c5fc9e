// Package predictors holds the source-side predictor objects that model
// building converts into graph nodes. Predictors are plain value holders;
// the adapters in the nodes package turn them into wired nodes during a
// transformation.
package predictors

import "slices"

// ConstantPredictor always predicts the same values, independent of its
// input. It is the simplest predictor and the canonical adapter example.
type ConstantPredictor struct {
	values []float64
}

// NewConstantPredictor creates a predictor carrying the given values.
func NewConstantPredictor(values ...float64) ConstantPredictor {
	return ConstantPredictor{values: slices.Clone(values)}
}

// Values returns the predictor's stored values as a read-only view.
func (p ConstantPredictor) Values() []float64 { return p.values }
