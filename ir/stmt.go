package ir

// Kind tags the statement variants.
type Kind int

const (
	ForKind Kind = iota
	IfKind
	OperationKind
)

func (k Kind) String() string {
	switch k {
	case ForKind:
		return "for"
	case IfKind:
		return "if"
	case OperationKind:
		return "operation"
	}
	return "unknown"
}

// Stmt is a statement in a structured function body.
// The set of statements is closed: *ForStmt, *IfStmt and *OperationStmt.
type Stmt interface {
	Kind() Kind
	Block() *Block // Block holding the statement, nil if detached.
	setBlock(*Block)
}

type stmtBase struct {
	block *Block
}

func (s *stmtBase) Block() *Block     { return s.block }
func (s *stmtBase) setBlock(b *Block) { s.block = b }

// FunctionOf returns the function whose body (transitively) holds s.
func FunctionOf(s Stmt) *MLFunction {
	if s.Block() == nil {
		return nil
	}
	return s.Block().Function()
}

// Erase removes s from the block holding it. It returns false if s is
// detached.
func Erase(s Stmt) bool {
	if s.Block() == nil {
		return false
	}
	return s.Block().Remove(s)
}

// ForStmt is a counted loop with constant bounds.
//
// The induction variable takes the values lower, lower+step, ... and the
// number of iterations is given by TripCount in package loop.
type ForStmt struct {
	stmtBase
	lower, upper, step int64

	iv   *InductionVar
	body *Block
}

// NewForStmt returns a detached loop with an empty body.
func NewForStmt(iv string, lower, upper, step int64) *ForStmt {
	f := &ForStmt{lower: lower, upper: upper, step: step}
	f.iv = &InductionVar{name: iv, loop: f}
	f.body = &Block{parent: f}
	return f
}

func (f *ForStmt) Kind() Kind        { return ForKind }
func (f *ForStmt) LowerBound() int64 { return f.lower }
func (f *ForStmt) UpperBound() int64 { return f.upper }
func (f *ForStmt) Step() int64       { return f.step }
func (f *ForStmt) IV() *InductionVar { return f.iv }
func (f *ForStmt) Body() *Block      { return f.body }

// IfStmt is a two-way conditional.
type IfStmt struct {
	stmtBase
	cond Value

	then *Block
	els  *Block
}

// NewIfStmt returns a detached conditional with empty branches.
func NewIfStmt(cond Value) *IfStmt {
	s := &IfStmt{cond: cond}
	s.then = &Block{parent: s}
	s.els = &Block{parent: s}
	return s
}

func (s *IfStmt) Kind() Kind   { return IfKind }
func (s *IfStmt) Cond() Value  { return s.cond }
func (s *IfStmt) Then() *Block { return s.then }
func (s *IfStmt) Else() *Block { return s.els }

// OperationStmt is an opaque operation.
type OperationStmt struct {
	stmtBase
	name     string
	operands []Value
	results  []*Result
	attrs    Attrs
}

// NewOperationStmt returns a detached operation with one result per entry of
// resultTypes. The operand slice is copied; attrs is kept as is.
func NewOperationStmt(name string, operands []Value, resultTypes []Type, attrs Attrs) *OperationStmt {
	op := &OperationStmt{
		name:     name,
		operands: append([]Value(nil), operands...),
		attrs:    attrs,
	}
	for i, t := range resultTypes {
		op.results = append(op.results, &Result{typ: t, index: i, op: op})
	}
	return op
}

func (op *OperationStmt) Kind() Kind   { return OperationKind }
func (op *OperationStmt) Name() string { return op.name }

// Operands returns the operands. The slice must not be modified.
func (op *OperationStmt) Operands() []Value   { return op.operands }
func (op *OperationStmt) NumOperands() int    { return len(op.operands) }
func (op *OperationStmt) Operand(i int) Value { return op.operands[i] }

// Results returns the results. The slice must not be modified.
func (op *OperationStmt) Results() []*Result   { return op.results }
func (op *OperationStmt) NumResults() int      { return len(op.results) }
func (op *OperationStmt) Result(i int) *Result { return op.results[i] }

// ResultTypes returns a fresh slice with the type of every result.
func (op *OperationStmt) ResultTypes() []Type {
	types := make([]Type, len(op.results))
	for i, r := range op.results {
		types[i] = r.typ
	}
	return types
}

func (op *OperationStmt) Attrs() Attrs { return op.attrs }

// Attr looks up attribute name.
func (op *OperationStmt) Attr(name string) (Attribute, bool) {
	a, ok := op.attrs[name]
	return a, ok
}
