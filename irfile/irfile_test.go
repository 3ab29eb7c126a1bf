package irfile_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/irfile"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumText = `mlfunc @sum(%n: i64) {
  for %i = 0 to 2 step 1 {
    %x = "mul"(%i, %n) : (index, i64) -> i64
    "store"(%x, 4) {align = 4, dims = [1, 2], scale = 0.5, tag = "a", volatile = false} : (i64, i32) -> ()
  }
  %c = "cmpi"(%n, 0) {pred = "sgt"} : (i64, i64) -> i1
  if %c {
    for %j = 10 to 1 step -3 {
      "call"(%j) : (index) -> ()
    }
  } else {
    "nop"() : () -> ()
  }
}

extfunc @ext(i32, index)

extfunc @graph()
`

func TestLoadFile(t *testing.T) {
	m, err := irfile.LoadFile("testdata/sum.yaml")
	require.NoError(t, err)
	assert.Equal(t, sumText, m.String())
	require.NoError(t, ir.VerifyModule(m))

	sum := m.Func("sum").(*ir.MLFunction)
	l := sum.Body().At(0).(*ir.ForStmt)
	assert.Equal(t, int64(1), l.Step(), "step defaults to 1")
	mul := l.Body().At(0).(*ir.OperationStmt)
	assert.Same(t, l.IV(), mul.Operand(0))
	assert.Same(t, sum.Arg(0), mul.Operand(1))
	store := l.Body().At(1).(*ir.OperationStmt)
	assert.Same(t, mul.Result(0), store.Operand(0))
	c, ok := store.Operand(1).(*ir.Const)
	require.True(t, ok)
	assert.Equal(t, ir.I32, c.Type())
	assert.Equal(t, int64(4), c.Int64())
	dims, _ := store.Attr("dims")
	assert.Equal(t, ir.ArrayAttr{ir.IntAttr(1), ir.IntAttr(2)}, dims)
}

func TestEncodeDecode(t *testing.T) {
	m, err := irfile.LoadFile("testdata/sum.yaml")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, irfile.Encode(&buf, m))
	assert.Contains(t, buf.String(), "kind: ext")
	assert.NotContains(t, buf.String(), "step: 1\n")

	again, err := irfile.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.String(), again.String())
}

func TestEncodeAnonymous(t *testing.T) {
	m := ir.NewModule()
	f := ir.NewMLFunction("f")
	l := ir.NewBuilder(f.Body()).CreateFor("", 0, 1, 1)
	b := ir.NewBuilder(l.Body())
	r := b.CreateOperation("a", []ir.Value{l.IV()}, []ir.Type{ir.F32}, nil)
	b.CreateOperation("b", []ir.Value{r.Result(0)}, nil, ir.Attrs{"w": ir.FloatAttr(2)})
	require.NoError(t, m.AddFunction(f))
	require.NoError(t, m.AddFunction(ir.NewCFGFunction("g", nil)))

	var buf bytes.Buffer
	require.NoError(t, irfile.Encode(&buf, m))
	again, err := irfile.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, `mlfunc @f() {
  for %i0 = 0 to 1 step 1 {
    %0 = "a"(%i0) : (index) -> f32
    "b"(%0) {w = 2} : (f32) -> ()
  }
}

extfunc @g()
`, again.String())
	w, _ := again.MLFunctions()[0].Body().At(0).(*ir.ForStmt).Body().At(1).(*ir.OperationStmt).Attr("w")
	assert.Equal(t, ir.FloatAttr(2), w)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"UnknownField", "functions:\n  - name: f\n    bogus: 1\n", "bogus"},
		{"NoName", "functions:\n  - body: []\n", "no name"},
		{"UnknownKind", "functions:\n  - {name: f, kind: gpu}\n", "unknown function kind"},
		{"DuplicateFunc", "functions:\n  - {name: f}\n  - {name: f}\n", "already has function"},
		{"NoStatementKind", "functions:\n  - name: f\n    body:\n      - operands: [\"1\"]\n", "exactly one of"},
		{"TwoStatementKinds", "functions:\n  - name: f\n    body:\n      - {op: a, for: {lower: 0, upper: 1}}\n", "exactly one of"},
		{"ZeroStep", "functions:\n  - name: f\n    body:\n      - for: {iv: i, lower: 0, upper: 1, step: 0}\n", "zero step"},
		{"BadOperand", "functions:\n  - name: f\n    body:\n      - {op: a, operands: [x]}\n", "bad operand"},
		{"Redefined", "functions:\n  - name: f\n    args: [{name: a, type: i1}, {name: a, type: i1}]\n", "redefined"},
		{"ExtWithBody", "functions:\n  - name: f\n    kind: ext\n    body:\n      - {op: a}\n", "cannot have args or body"},
		{"BadAttr", "functions:\n  - name: f\n    body:\n      - {op: a, attrs: {k: {x: 1}}}\n", "scalar or a list"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := irfile.Decode(strings.NewReader(test.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.msg)
		})
	}
}

func TestDecodeUndefined(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Missing", `functions:
  - name: f
    body:
      - {op: a, operands: ["%x"]}
`},
		{"LaterDefinition", `functions:
  - name: f
    body:
      - {op: a, operands: ["%x"]}
      - {op: b, results: [{name: x, type: i1}]}
`},
		{"OutOfScope", `functions:
  - name: f
    body:
      - for: {iv: i, lower: 0, upper: 1}
        body:
          - {op: b, results: [{name: x, type: i1}]}
      - {op: a, operands: ["%x"]}
`},
		{"InductionVarAfterLoop", `functions:
  - name: f
    body:
      - for: {iv: i, lower: 0, upper: 1}
      - {op: a, operands: ["%i"]}
`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := irfile.Decode(strings.NewReader(test.doc))
			undef, ok := errors.Cause(err).(*irfile.UndefinedValueError)
			require.True(t, ok, "want *UndefinedValueError, got %v", err)
			assert.Equal(t, "f", undef.Func)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	m, err := irfile.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Functions())
}
