package nodes

import (
	"github.com/matzehuels/portgraph/pkg/describe"
	"github.com/matzehuels/portgraph/pkg/model"
)

// Static registration of every node kind for every supported element type.
// The factories produce empty, unwired instances for model deserialization.
func init() {
	registerValueKinds[bool]()
	registerValueKinds[int]()
	registerValueKinds[int32]()
	registerValueKinds[int64]()
	registerValueKinds[float32]()
	registerValueKinds[float64]()

	registerNumericKinds[int]()
	registerNumericKinds[int32]()
	registerNumericKinds[int64]()
	registerNumericKinds[float32]()
	registerNumericKinds[float64]()
}

func registerValueKinds[T model.Element]() {
	describe.MustRegister(ConstantTypeName[T](), func() any { return newConstant[T]() })
	describe.MustRegister(InputTypeName[T](), func() any { return newInput[T]() })
	describe.MustRegister(OutputTypeName[T](), func() any { return newOutput[T]() })
}

func registerNumericKinds[T model.Numeric]() {
	describe.MustRegister(BinaryOpTypeName[T](), func() any { return newBinaryOp[T]() })
	describe.MustRegister(SumTypeName[T](), func() any { return newSum[T]() })
}
