package loop_test

import (
	"math"
	"testing"

	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/loop"
	"github.com/pkg/errors"
)

// stmtNames lists operation names, or the kind of other statements.
func stmtNames(b *ir.Block) []string {
	var names []string
	for _, s := range b.Stmts() {
		if op, ok := s.(*ir.OperationStmt); ok {
			names = append(names, op.Name())
		} else {
			names = append(names, s.Kind().String())
		}
	}
	return names
}

// loopFunc builds: before; for i = lower to upper step step { body... }; after
func loopFunc(lower, upper, step int64, body ...string) (*ir.MLFunction, *ir.ForStmt) {
	f := ir.NewMLFunction("f")
	b := ir.NewBuilder(f.Body())
	b.CreateOperation("before", nil, nil, nil)
	l := b.CreateFor("i", lower, upper, step)
	b.CreateOperation("after", nil, nil, nil)
	lb := ir.NewBuilder(l.Body())
	for _, name := range body {
		lb.CreateOperation(name, nil, nil, nil)
	}
	return f, l
}

func TestUnroll(t *testing.T) {
	tests := []struct {
		name               string
		lower, upper, step int64
		body               []string
		expect             []string
	}{
		{"ThreeIterations", 0, 2, 1, []string{"opA", "opB"},
			[]string{"before", "opA", "opB", "opA", "opB", "opA", "opB", "after"}},
		{"SingleIteration", 0, 0, 1, []string{"opA", "opB"},
			[]string{"before", "opA", "opB", "after"}},
		{"ZeroTrip", 5, 4, 1, []string{"opA"},
			[]string{"before", "after"}},
		{"EmptyBody", 0, 9, 1, nil,
			[]string{"before", "after"}},
		{"Step", 0, 9, 2, []string{"opA"},
			[]string{"before", "opA", "opA", "opA", "opA", "opA", "after"}},
		{"CountDown", 3, 1, -1, []string{"opA"},
			[]string{"before", "opA", "opA", "opA", "after"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, l := loopFunc(test.lower, test.upper, test.step, test.body...)
			if err := loop.Unroll(l); err != nil {
				t.Fatalf("Unroll failed: %v", err)
			}
			if want, got := test.expect, stmtNames(f.Body()); !equal(want, got) {
				t.Errorf("Unrolled body mismatch, want: %v got: %v", want, got)
			}
			if l.Block() != nil {
				t.Errorf("Original loop should be removed")
			}
			if err := ir.Verify(f); err != nil {
				t.Errorf("Unrolled function does not verify: %v", err)
			}
		})
	}
}

func TestUnrollRejectsControlFlow(t *testing.T) {
	tests := []struct {
		name  string
		build func(l *ir.ForStmt)
		kind  ir.Kind
	}{
		{"NestedLoop", func(l *ir.ForStmt) {
			b := ir.NewBuilder(l.Body())
			b.CreateOperation("opA", nil, nil, nil)
			b.CreateFor("j", 0, 1, 1)
		}, ir.ForKind},
		{"Conditional", func(l *ir.ForStmt) {
			b := ir.NewBuilder(l.Body())
			b.CreateIf(l.IV())
			b.CreateOperation("opA", nil, nil, nil)
		}, ir.IfKind},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, l := loopFunc(0, 2, 1)
			test.build(l)
			before := stmtNames(f.Body())

			err := loop.Unroll(l)
			if err == nil {
				t.Fatalf("Expects unroll to fail")
			}
			unsupported, ok := errors.Cause(err).(*loop.UnsupportedStmtError)
			if !ok {
				t.Fatalf("Expects *UnsupportedStmtError but got %T: %v", errors.Cause(err), err)
			}
			if unsupported.Kind != test.kind || unsupported.Loop != l {
				t.Errorf("Error does not describe the statement: %v", err)
			}
			if want, got := before, stmtNames(f.Body()); !equal(want, got) {
				t.Errorf("Parent block modified, want: %v got: %v", want, got)
			}
			if l.Block() != f.Body() {
				t.Errorf("Loop should still be in place")
			}
		})
	}
}

func TestUnrollPreconditions(t *testing.T) {
	if err := loop.Unroll(ir.NewForStmt("i", 0, 1, 1)); errors.Cause(err) != ir.ErrDetached {
		t.Errorf("Expects ErrDetached but got %v", err)
	}
	_, l := loopFunc(0, 1, 0, "opA")
	if err := loop.Unroll(l); errors.Cause(err) != loop.ErrZeroStep {
		t.Errorf("Expects ErrZeroStep but got %v", err)
	}

	overflows := []struct {
		name               string
		lower, upper, step int64
	}{
		{"UpToMax", 0, math.MaxInt64, 1},
		{"FromMin", math.MinInt64, 0, 1},
		{"DownToMin", 0, math.MinInt64, -1},
		{"FullRange", math.MinInt64, math.MaxInt64, 1},
	}
	for _, test := range overflows {
		t.Run(test.name, func(t *testing.T) {
			f, l := loopFunc(test.lower, test.upper, test.step, "opA")
			if err := loop.Unroll(l); errors.Cause(err) != loop.ErrTripCountOverflow {
				t.Errorf("Expects ErrTripCountOverflow but got %v", err)
			}
			if want, got := []string{"before", "for", "after"}, stmtNames(f.Body()); !equal(want, got) {
				t.Errorf("Function modified despite error, want: %v got: %v", want, got)
			}
		})
	}
}

func TestUnrollRemapsValues(t *testing.T) {
	f := ir.NewMLFunction("f")
	n := f.AddArgument("n", ir.Index)
	l := ir.NewBuilder(f.Body()).CreateFor("i", 1, 5, 2)
	b := ir.NewBuilder(l.Body())
	x := b.CreateOperation("mul", []ir.Value{l.IV(), n}, []ir.Type{ir.Index}, nil)
	x.Result(0).SetName("x")
	b.CreateOperation("store", []ir.Value{x.Result(0), l.IV()}, nil, nil)

	if err := loop.Unroll(l); err != nil {
		t.Fatalf("Unroll failed: %v", err)
	}
	want := `mlfunc @f(%n: index) {
  %x = "mul"(1, %n) : (index, index) -> index
  "store"(%x, 1) : (index, index) -> ()
  %x_1 = "mul"(3, %n) : (index, index) -> index
  "store"(%x_1, 3) : (index, index) -> ()
}
`
	if got := f.String(); want != got {
		t.Errorf("Unrolled function mismatch, want:\n%s\ngot:\n%s\n", want, got)
	}
	first := f.Body().At(0).(*ir.OperationStmt)
	store := f.Body().At(1).(*ir.OperationStmt)
	if store.Operand(0) != first.Result(0) {
		t.Errorf("Store should use the result of the copy in the same iteration")
	}
	if first.Operand(1) != n {
		t.Errorf("Loop invariant operand should be kept")
	}
	if err := ir.Verify(f); err != nil {
		t.Errorf("Unrolled function does not verify: %v", err)
	}
}

func TestUnrollCopiesAttributes(t *testing.T) {
	f, l := loopFunc(0, 1, 1)
	attrs := ir.Attrs{"k": ir.IntAttr(1)}
	orig := ir.NewBuilder(l.Body()).CreateOperation("opA", nil, []ir.Type{ir.I32}, attrs)
	if err := loop.Unroll(l); err != nil {
		t.Fatalf("Unroll failed: %v", err)
	}
	attrs["k"] = ir.IntAttr(2)
	for i, name := range []string{"before", "opA", "opA", "after"} {
		op := f.Body().At(i).(*ir.OperationStmt)
		if op.Name() != name {
			t.Fatalf("Statement #%d want: %s got: %s", i, name, op.Name())
		}
		if name != "opA" {
			continue
		}
		if op == orig {
			t.Errorf("Unrolled statement should be a copy")
		}
		if v, _ := op.Attr("k"); v != ir.IntAttr(1) {
			t.Errorf("Copy shares attributes with the original: k = %v", v)
		}
		if op.NumResults() != 1 || op.Result(0).Type() != ir.I32 {
			t.Errorf("Result types not copied")
		}
	}
}
