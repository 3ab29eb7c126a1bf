package quant_test

import (
	"testing"

	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/pass"
	"github.com/nickng/mlpass/quant"
)

func quantFunc() *ir.MLFunction {
	f := ir.NewMLFunction("q")
	x := f.AddArgument("x", ir.F32)
	b := ir.NewBuilder(f.Body())
	c := b.CreateOperation("constant", nil, []ir.Type{ir.F32}, ir.Attrs{"value": ir.FloatAttr(0.5)})
	b.CreateOperation("quant.qcast", []ir.Value{c.Result(0)}, []ir.Type{ir.I32}, nil)
	l := b.CreateFor("i", 0, 3, 1)
	lb := ir.NewBuilder(l.Body())
	fq := lb.CreateOperation("tf.FakeQuantWithMinMaxArgs", []ir.Value{x}, []ir.Type{ir.F32}, nil)
	lb.CreateOperation("fxpmath.real_add_ew", []ir.Value{fq.Result(0), x}, []ir.Type{ir.F32}, nil)
	lb.CreateOperation("quant.qcast", []ir.Value{x}, []ir.Type{ir.I32}, nil)
	return f
}

func TestPassesLeaveFunctionUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		create func() pass.FunctionPass
	}{
		{quant.LowerTFPassName, quant.CreateLowerTFPass},
		{quant.ConvertConstPassName, quant.CreateConvertConstPass},
		{quant.LowerUniformRealMathPassName, quant.CreateLowerUniformRealMathPass},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := quantFunc()
			before := f.String()
			p := test.create()
			if p.Name() != test.name {
				t.Errorf("Pass name want: %s got: %s", test.name, p.Name())
			}
			changed, err := p.RunOnMLFunction(f)
			if err != nil {
				t.Fatalf("Pass failed: %v", err)
			}
			if changed {
				t.Errorf("Expects unchanged")
			}
			if after := f.String(); before != after {
				t.Errorf("Function modified, want:\n%s\ngot:\n%s\n", before, after)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	f := quantFunc()
	tests := []struct {
		name   string
		match  func(*ir.OperationStmt) bool
		expect []string
	}{
		{"All", func(*ir.OperationStmt) bool { return true },
			[]string{"constant", "quant.qcast", "tf.FakeQuantWithMinMaxArgs", "fxpmath.real_add_ew", "quant.qcast"}},
		{"None", func(*ir.OperationStmt) bool { return false }, nil},
		{"Casts", func(op *ir.OperationStmt) bool { return op.Name() == "quant.qcast" },
			[]string{"quant.qcast", "quant.qcast"}},
	}
	for _, test := range tests {
		ops := quant.Candidates(f, test.match)
		if len(ops) != len(test.expect) {
			t.Errorf("%s: want %d candidates got %d", test.name, len(test.expect), len(ops))
			continue
		}
		for i, op := range ops {
			if op.Name() != test.expect[i] {
				t.Errorf("%s: candidate #%d want: %s got: %s", test.name, i, test.expect[i], op.Name())
			}
		}
	}
}
