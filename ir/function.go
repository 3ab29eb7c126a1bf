package ir

import (
	gossa "golang.org/x/tools/go/ssa"
)

// Function is a function of a Module.
// The set of functions is closed: *MLFunction, *CFGFunction and *ExtFunction.
type Function interface {
	Name() string
	Module() *Module
	setModule(*Module)
}

type funcBase struct {
	name   string
	module *Module
}

func (f *funcBase) Name() string        { return f.name }
func (f *funcBase) Module() *Module     { return f.module }
func (f *funcBase) setModule(m *Module) { f.module = m }

// MLFunction is a function in structured form: a body of nested statements.
type MLFunction struct {
	funcBase
	args []*Argument
	body *Block
}

// NewMLFunction returns a function with no arguments and an empty body.
func NewMLFunction(name string) *MLFunction {
	f := &MLFunction{funcBase: funcBase{name: name}}
	f.body = &Block{fn: f}
	return f
}

// AddArgument appends a new argument to the function signature.
func (f *MLFunction) AddArgument(name string, t Type) *Argument {
	arg := &Argument{name: name, typ: t, index: len(f.args), fn: f}
	f.args = append(f.args, arg)
	return arg
}

func (f *MLFunction) Args() []*Argument   { return f.args }
func (f *MLFunction) Arg(i int) *Argument { return f.args[i] }
func (f *MLFunction) Body() *Block        { return f.body }

// CFGFunction is a function in control flow graph form, backed by go/ssa.
// Structured passes leave it untouched.
type CFGFunction struct {
	funcBase
	fn *gossa.Function
}

// NewCFGFunction wraps fn, which may be nil, as a function called name.
func NewCFGFunction(name string, fn *gossa.Function) *CFGFunction {
	return &CFGFunction{funcBase: funcBase{name: name}, fn: fn}
}

// SSA returns the underlying go/ssa function, which may be nil.
func (f *CFGFunction) SSA() *gossa.Function { return f.fn }

// NumBlocks returns the number of basic blocks.
func (f *CFGFunction) NumBlocks() int {
	if f.fn == nil {
		return 0
	}
	return len(f.fn.Blocks)
}

// ExtFunction is an external function declaration without a body.
type ExtFunction struct {
	funcBase
	params []Type
}

// NewExtFunction returns a declaration of an external function.
func NewExtFunction(name string, params ...Type) *ExtFunction {
	return &ExtFunction{funcBase: funcBase{name: name}, params: params}
}

func (f *ExtFunction) Params() []Type { return f.params }
