package ecalplot

import (
	"errors"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var errNaN = errors.New("result is not a number")

func formulaFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":   stdlib.AbsoluteFunc,
		"min":   stdlib.MinFunc,
		"max":   stdlib.MaxFunc,
		"pow":   stdlib.PowFunc,
		"sqrt":  unaryFunc(math.Sqrt),
		"exp":   unaryFunc(math.Exp),
		"log":   unaryFunc(math.Log),
		"log10": unaryFunc(math.Log10),
		"sin":   unaryFunc(math.Sin),
		"cos":   unaryFunc(math.Cos),
		"tan":   unaryFunc(math.Tan),
		"sinh":  unaryFunc(math.Sinh),
		"cosh":  unaryFunc(math.Cosh),
		"tanh":  unaryFunc(math.Tanh),
		"atan2": binaryFunc(math.Atan2),
		"hasbits": function.New(&function.Spec{
			Params: []function.Parameter{
				{Name: "value", Type: cty.Number},
				{Name: "mask", Type: cty.Number},
			},
			Type: function.StaticReturnType(cty.Bool),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				v, _ := args[0].AsBigFloat().Uint64()
				mask, _ := args[1].AsBigFloat().Uint64()
				return cty.BoolVal(v&mask == mask), nil
			},
		}),
	}
}

func unaryFunc(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "x", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			return floatResult(fn(x))
		},
	})
}

func binaryFunc(fn func(float64, float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "y", Type: cty.Number},
			{Name: "x", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			y, _ := args[0].AsBigFloat().Float64()
			x, _ := args[1].AsBigFloat().Float64()
			return floatResult(fn(y, x))
		},
	})
}

func floatResult(x float64) (cty.Value, error) {
	if math.IsNaN(x) {
		return cty.UnknownVal(cty.Number), errNaN
	}
	return cty.NumberFloatVal(x), nil
}
