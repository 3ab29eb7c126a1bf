package quant

import (
	"strings"

	"github.com/fatih/color"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/pass"
)

// Registry names of the quantization passes.
const (
	LowerTFPassName              = "quant-lower-tf"
	ConvertConstPassName         = "quant-convert-const"
	LowerUniformRealMathPassName = "quant-lower-uniform-real-math"
)

// CreateLowerTFPass creates a pass that lowers quantization related
// TensorFlow operations (fake quantization) into the quantization dialect.
func CreateLowerTFPass() pass.FunctionPass {
	return newPass(LowerTFPassName, func(op *ir.OperationStmt) bool {
		return strings.HasPrefix(op.Name(), "tf.FakeQuant")
	})
}

// CreateConvertConstPass creates a pass that converts a constant followed by
// a quantization barrier into a constant holding the quantized value.
func CreateConvertConstPass() pass.FunctionPass {
	return newPass(ConvertConstPassName, func(op *ir.OperationStmt) bool {
		if op.Name() != "quant.qcast" || op.NumOperands() != 1 {
			return false
		}
		r, ok := op.Operand(0).(*ir.Result)
		return ok && r.Op().Name() == "constant"
	})
}

// CreateLowerUniformRealMathPass creates a pass that lowers uniform quantized
// real math operations to integer arithmetic.
func CreateLowerUniformRealMathPass() pass.FunctionPass {
	return newPass(LowerUniformRealMathPassName, func(op *ir.OperationStmt) bool {
		return strings.HasPrefix(op.Name(), "fxpmath.real_")
	})
}

// quantPass finds the operations a quantization rewrite applies to.
type quantPass struct {
	*pass.Logger
	name  string
	match func(*ir.OperationStmt) bool
}

func newPass(name string, match func(*ir.OperationStmt) bool) *quantPass {
	p := &quantPass{name: name, match: match}
	p.SetLogger(pass.NopLogger())
	return p
}

func (p *quantPass) Name() string { return p.name }

// SetLogger sets logger for the quantization pass.
func (p *quantPass) SetLogger(l *pass.Logger) {
	p.Logger = l.WithModule("quant ", color.FgYellow)
}

// RunOnMLFunction never changes f.
func (p *quantPass) RunOnMLFunction(f *ir.MLFunction) (bool, error) {
	ops := Candidates(f, p.match)
	p.Debugw("function left unchanged", "pass", p.name, "func", f.Name(), "candidates", len(ops))
	return false, nil
}

// Candidates returns the operations of f, at any depth and in program order,
// for which match returns true.
func Candidates(f *ir.MLFunction, match func(*ir.OperationStmt) bool) []*ir.OperationStmt {
	var ops []*ir.OperationStmt
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		for _, s := range b.Stmts() {
			switch s := s.(type) {
			case *ir.OperationStmt:
				if match(s) {
					ops = append(ops, s)
				}
			case *ir.ForStmt:
				walk(s.Body())
			case *ir.IfStmt:
				walk(s.Then())
				walk(s.Else())
			}
		}
	}
	walk(f.Body())
	return ops
}
