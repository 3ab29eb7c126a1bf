// Package quant provides the quantization passes.
//
// The passes are registered so that pipelines naming them can be built and
// run, but they do not rewrite anything yet: each one reports the operations
// it would act on and leaves the function unchanged.
package quant
