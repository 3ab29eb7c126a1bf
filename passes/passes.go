// Package passes registers every pass of the module.
package passes

import (
	"github.com/nickng/mlpass/loop"
	"github.com/nickng/mlpass/pass"
	"github.com/nickng/mlpass/quant"
)

// Default returns a registry holding all known passes.
func Default() *pass.Registry {
	r := pass.NewRegistry()
	must(r.RegisterFunctionPass(loop.UnrollPassName,
		"fully unroll innermost loops", loop.CreateUnrollPass))
	must(r.RegisterFunctionPass(quant.LowerTFPassName,
		"lower TensorFlow quantization ops to the quantization dialect", quant.CreateLowerTFPass))
	must(r.RegisterFunctionPass(quant.ConvertConstPassName,
		"fold quantization barriers into quantized constants", quant.CreateConvertConstPass))
	must(r.RegisterFunctionPass(quant.LowerUniformRealMathPassName,
		"lower uniform quantized real math to integer arithmetic", quant.CreateLowerUniformRealMathPass))
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
