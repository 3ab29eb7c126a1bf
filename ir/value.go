package ir

import "strconv"

// Type is a named type descriptor, e.g. index or i32.
type Type string

// Builtin types.
const (
	Index Type = "index"
	I1    Type = "i1"
	I32   Type = "i32"
	I64   Type = "i64"
	F32   Type = "f32"
	Bool  Type = "bool"
)

func (t Type) String() string { return string(t) }

// Value is an SSA value that operations and conditions refer to.
// The set of values is closed: *Const, *Argument, *InductionVar and *Result.
type Value interface {
	Type() Type
	isValue()
}

// Const is an integer literal. Consts are not defined by any statement and
// are visible everywhere.
type Const struct {
	val int64
	typ Type
}

// NewConst returns a constant v of type t.
func NewConst(v int64, t Type) *Const {
	return &Const{val: v, typ: t}
}

func (c *Const) Int64() int64 { return c.val }
func (c *Const) Type() Type   { return c.typ }
func (c *Const) String() string {
	return strconv.FormatInt(c.val, 10)
}
func (*Const) isValue() {}

// Argument is a parameter of an MLFunction.
type Argument struct {
	name  string
	typ   Type
	index int
	fn    *MLFunction
}

func (a *Argument) Name() string          { return a.name }
func (a *Argument) Type() Type            { return a.typ }
func (a *Argument) Index() int            { return a.index }
func (a *Argument) Function() *MLFunction { return a.fn }
func (*Argument) isValue()                {}

// InductionVar is the loop variable of a ForStmt.
type InductionVar struct {
	name string
	loop *ForStmt
}

func (v *InductionVar) Name() string   { return v.name }
func (v *InductionVar) Type() Type     { return Index }
func (v *InductionVar) Loop() *ForStmt { return v.loop }
func (*InductionVar) isValue()         {}

// Result is the i-th result of an OperationStmt.
type Result struct {
	name  string // Name hint, may be empty.
	typ   Type
	index int
	op    *OperationStmt
}

func (r *Result) Name() string        { return r.name }
func (r *Result) Type() Type          { return r.typ }
func (r *Result) Index() int          { return r.index }
func (r *Result) Op() *OperationStmt  { return r.op }
func (r *Result) SetName(name string) { r.name = name }
func (*Result) isValue()              {}
