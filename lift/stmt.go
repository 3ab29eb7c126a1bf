package lift

import (
	"bytes"
	"go/ast"
	"go/constant"
	"go/format"
	"go/token"
	"go/types"
	"math"
	"math/bits"

	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/loop"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
)

// Operation names of lifted statements.
const (
	OpAssign = "go.assign"
	OpIncDec = "go.incdec"
	OpExpr   = "go.expr"
	OpDecl   = "go.decl"
	OpSend   = "go.send"
	OpReturn = "go.return"
	OpCond   = "go.cond"
)

// funcLifter lifts the body of one function.
type funcLifter struct {
	*Lifter
	fn  *ir.MLFunction
	env map[types.Object]ir.Value // Parameters and induction variables in scope.
}

// block lifts stmts at the insertion point of b. A return is accepted only
// as the last statement of the function body (top).
func (fl *funcLifter) block(b *ir.Builder, stmts []ast.Stmt, top bool) error {
	for i, s := range stmts {
		if ret, ok := s.(*ast.ReturnStmt); ok {
			if !top || i != len(stmts)-1 {
				return fl.notStructured(s, "return before the end of the function")
			}
			fl.simple(b, OpReturn, ret)
			continue
		}
		if err := fl.stmt(b, s); err != nil {
			return err
		}
	}
	return nil
}

func (fl *funcLifter) stmt(b *ir.Builder, s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.ForStmt:
		return fl.forStmt(b, s)
	case *ast.IfStmt:
		return fl.ifStmt(b, s)
	case *ast.BlockStmt:
		return fl.block(b, s.List, false)
	case *ast.EmptyStmt:
		return nil
	case *ast.AssignStmt:
		fl.simple(b, OpAssign, s)
	case *ast.IncDecStmt:
		fl.simple(b, OpIncDec, s)
	case *ast.ExprStmt:
		fl.simple(b, OpExpr, s)
	case *ast.DeclStmt:
		fl.simple(b, OpDecl, s)
	case *ast.SendStmt:
		fl.simple(b, OpSend, s)
	case *ast.RangeStmt:
		return fl.notStructured(s, "range loop")
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return fl.notStructured(s, "switch statement")
	case *ast.SelectStmt:
		return fl.notStructured(s, "select statement")
	case *ast.BranchStmt:
		return fl.notStructured(s, "%s statement", s.Tok)
	case *ast.LabeledStmt:
		return fl.notStructured(s, "labeled statement")
	case *ast.GoStmt:
		return fl.notStructured(s, "go statement")
	case *ast.DeferStmt:
		return fl.notStructured(s, "defer statement")
	default:
		return fl.notStructured(s, "unsupported statement %T", s)
	}
	return nil
}

// simple inserts an opaque operation for n.
func (fl *funcLifter) simple(b *ir.Builder, name string, n ast.Node) *ir.OperationStmt {
	return b.CreateOperation(name, fl.refs(n), nil, ir.Attrs{"src": ir.StringAttr(fl.src(n))})
}

// refs returns the parameters and induction variables used in n, in order
// of first use.
func (fl *funcLifter) refs(n ast.Node) []ir.Value {
	var vals []ir.Value
	seen := make(map[ir.Value]bool)
	ast.Inspect(n, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		obj := fl.info.Types.Uses[id]
		if obj == nil {
			obj = fl.info.Types.Defs[id]
		}
		if v, ok := fl.env[obj]; ok && !seen[v] {
			seen[v] = true
			vals = append(vals, v)
		}
		return true
	})
	return vals
}

func (fl *funcLifter) src(n ast.Node) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, fl.info.FSet, n); err != nil {
		return "?"
	}
	return buf.String()
}

func (fl *funcLifter) ifStmt(b *ir.Builder, s *ast.IfStmt) error {
	if s.Init != nil {
		if err := fl.stmt(b, s.Init); err != nil {
			return err
		}
	}
	cond := b.CreateOperation(OpCond, fl.refs(s.Cond), []ir.Type{ir.Bool},
		ir.Attrs{"src": ir.StringAttr(fl.src(s.Cond))})
	ifs := b.CreateIf(cond.Result(0))
	if err := fl.block(ir.NewBuilder(ifs.Then()), s.Body.List, false); err != nil {
		return err
	}
	switch els := s.Else.(type) {
	case nil:
	case *ast.BlockStmt:
		return fl.block(ir.NewBuilder(ifs.Else()), els.List, false)
	case *ast.IfStmt:
		return fl.ifStmt(ir.NewBuilder(ifs.Else()), els)
	}
	return nil
}

// forStmt lifts a counted loop:
//
//	for i := lower; i < upper; i++ { ... }
//
// The condition may use <, <=, > or >= against a constant, and the post
// statement may be i++, i--, i += c or i -= c for a constant c.
func (fl *funcLifter) forStmt(b *ir.Builder, s *ast.ForStmt) error {
	if s.Init == nil || s.Cond == nil || s.Post == nil {
		return fl.notStructured(s, "loop is not counted")
	}
	init, ok := s.Init.(*ast.AssignStmt)
	if !ok || init.Tok != token.DEFINE || len(init.Lhs) != 1 || len(init.Rhs) != 1 {
		return fl.notStructured(s.Init, "loop does not define a single induction variable")
	}
	ivIdent, ok := init.Lhs[0].(*ast.Ident)
	if !ok {
		return fl.notStructured(s.Init, "loop does not define a single induction variable")
	}
	iv := fl.info.Types.Defs[ivIdent]
	if iv == nil {
		return fl.notStructured(ivIdent, "blank induction variable")
	}
	lower, ok := fl.intConst(init.Rhs[0])
	if !ok {
		return fl.notStructured(init.Rhs[0], "loop lower bound is not an integer constant")
	}
	step, ok := fl.step(s.Post, iv)
	if !ok {
		return fl.notStructured(s.Post, "loop step is not a nonzero constant increment of %s", iv.Name())
	}
	cmp, ok := s.Cond.(*ast.BinaryExpr)
	if !ok || !fl.isObj(cmp.X, iv) {
		return fl.notStructured(s.Cond, "loop condition does not compare %s to a bound", iv.Name())
	}
	bound, ok := fl.intConst(cmp.Y)
	if !ok {
		return fl.notStructured(cmp.Y, "loop upper bound is not an integer constant")
	}
	lo, hi, ok := valueRange(iv.Type())
	if !ok {
		return fl.notStructured(ivIdent, "induction variable %s is not an integer", iv.Name())
	}
	n, err := tripCount(lower, bound, step, cmp.Op, lo, hi)
	switch err {
	case nil:
	case errDirection:
		return fl.notStructured(s.Cond, "loop condition %s does not match step %d", cmp.Op, step)
	default:
		return fl.notStructured(s.Cond, "loop %s", err)
	}
	if pos := fl.modifies(s.Body, iv); pos.IsValid() {
		return fl.notStructured(posNode(pos), "induction variable %s modified in loop body", iv.Name())
	}

	var upper int64
	if step > 0 {
		upper = lower + n*step - 1
	} else {
		upper = lower + n*step + 1
	}
	f := b.CreateFor(iv.Name(), lower, upper, step)
	if got, err := loop.InfoOf(f).Iterations(); err != nil || got != n {
		ir.Erase(f)
		return fl.notStructured(s, "loop trip count %d cannot be represented", n)
	}
	fl.env[iv] = f.IV()
	defer delete(fl.env, iv)
	return fl.block(ir.NewBuilder(f.Body()), s.Body.List, false)
}

var (
	errDirection = errors.New("condition does not match step")
	errTripCount = errors.New("trip count cannot be represented")
)

// tripCount returns the number of iterations of a Go loop from lower
// while (i op bound), stepping by step, where i holds values in [lo, hi].
// It returns errTripCount when the count does not fit in an int64 or when
// i would wrap around instead of failing the condition.
func tripCount(lower, bound, step int64, op token.Token, lo, hi int64) (int64, error) {
	var from, to, ustep uint64
	switch op {
	case token.LSS, token.LEQ:
		if step <= 0 {
			return 0, errDirection
		}
		if bound < lower || (bound == lower && op == token.LSS) {
			return 0, nil
		}
		from, to, ustep = uint64(lower), uint64(bound), uint64(step)
	case token.GTR, token.GEQ:
		if step >= 0 {
			return 0, errDirection
		}
		if bound > lower || (bound == lower && op == token.GTR) {
			return 0, nil
		}
		// -MinInt64 wraps to MinInt64, which converts to 1<<63.
		from, to, ustep = uint64(bound), uint64(lower), uint64(-step)
	default:
		return 0, errDirection
	}
	// span counts the values from lower up to bound that pass the condition.
	span := to - from
	if op == token.LEQ || op == token.GEQ {
		var carry uint64
		if span, carry = bits.Add64(span, 1, 0); carry != 0 {
			return 0, errTripCount
		}
	}
	n := (span-1)/ustep + 1
	if n > math.MaxInt64 {
		return 0, errTripCount
	}
	last := lower + int64(n-1)*step
	if (step > 0 && last > hi-step) || (step < 0 && last < lo-step) {
		return 0, errTripCount
	}
	return int64(n), nil
}

// valueRange returns the values an integer variable of type t can hold,
// narrowed to int64.
func valueRange(t types.Type) (lo, hi int64, ok bool) {
	b, isBasic := t.Underlying().(*types.Basic)
	if !isBasic {
		return 0, 0, false
	}
	switch b.Kind() {
	case types.Int8:
		return math.MinInt8, math.MaxInt8, true
	case types.Int16:
		return math.MinInt16, math.MaxInt16, true
	case types.Int32:
		return math.MinInt32, math.MaxInt32, true
	case types.Int, types.Int64:
		return math.MinInt64, math.MaxInt64, true
	case types.Uint8:
		return 0, math.MaxUint8, true
	case types.Uint16:
		return 0, math.MaxUint16, true
	case types.Uint32:
		return 0, math.MaxUint32, true
	case types.Uint, types.Uint64, types.Uintptr:
		return 0, math.MaxInt64, true
	}
	return 0, 0, false
}

// step returns the constant increment of iv in post.
func (fl *funcLifter) step(post ast.Stmt, iv types.Object) (int64, bool) {
	switch post := post.(type) {
	case *ast.IncDecStmt:
		if !fl.isObj(post.X, iv) {
			return 0, false
		}
		if post.Tok == token.INC {
			return 1, true
		}
		return -1, true
	case *ast.AssignStmt:
		if len(post.Lhs) != 1 || len(post.Rhs) != 1 || !fl.isObj(post.Lhs[0], iv) {
			return 0, false
		}
		c, ok := fl.intConst(post.Rhs[0])
		if !ok || c == 0 {
			return 0, false
		}
		switch post.Tok {
		case token.ADD_ASSIGN:
			return c, true
		case token.SUB_ASSIGN:
			return -c, true
		}
	}
	return 0, false
}

// modifies returns the position of the first assignment to obj, or of its
// address being taken, in body.
func (fl *funcLifter) modifies(body *ast.BlockStmt, obj types.Object) token.Pos {
	pos := token.NoPos
	ast.Inspect(body, func(n ast.Node) bool {
		if pos.IsValid() {
			return false
		}
		switch n := n.(type) {
		case *ast.AssignStmt:
			if n.Tok == token.DEFINE {
				return true
			}
			for _, lhs := range n.Lhs {
				if fl.isObj(lhs, obj) {
					pos = lhs.Pos()
				}
			}
		case *ast.IncDecStmt:
			if fl.isObj(n.X, obj) {
				pos = n.Pos()
			}
		case *ast.UnaryExpr:
			if n.Op == token.AND && fl.isObj(n.X, obj) {
				pos = n.Pos()
			}
		}
		return true
	})
	return pos
}

func (fl *funcLifter) isObj(e ast.Expr, obj types.Object) bool {
	id, ok := astutil.Unparen(e).(*ast.Ident)
	return ok && fl.info.Types.Uses[id] == obj
}

// intConst returns the value of e if it is an integer constant that fits
// int64.
func (fl *funcLifter) intConst(e ast.Expr) (int64, bool) {
	tv, ok := fl.info.Types.Types[e]
	if !ok || tv.Value == nil {
		return 0, false
	}
	v := constant.ToInt(tv.Value)
	if v.Kind() != constant.Int {
		return 0, false
	}
	return constant.Int64Val(v)
}

// posNode is a node spanning a single position.
type posNode token.Pos

func (p posNode) Pos() token.Pos { return token.Pos(p) }
func (p posNode) End() token.Pos { return token.Pos(p) }
