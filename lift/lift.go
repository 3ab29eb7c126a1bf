package lift

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/fatih/color"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/pass"
	"github.com/nickng/mlpass/ssa"
	"github.com/pkg/errors"
)

// NotStructuredError is the error when a Go function cannot be represented
// as a structured function.
type NotStructuredError struct {
	Pos    token.Position
	Reason string
}

func (e *NotStructuredError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
}

// Lifter converts the functions of a built package.
type Lifter struct {
	info *ssa.Info
	*pass.Logger
}

// New returns a Lifter for the package in info.
func New(info *ssa.Info) *Lifter {
	l := &Lifter{info: info}
	l.SetLogger(pass.NopLogger())
	return l
}

// SetLogger sets logger for the Lifter.
func (l *Lifter) SetLogger(logger *pass.Logger) {
	l.Logger = logger.WithModule("lift ", color.FgGreen)
}

// Module lifts every function declared in info into a module.
func Module(info *ssa.Info) (*ir.Module, error) {
	return New(info).Lift()
}

// Lift converts every top-level function and method, in source order.
func (l *Lifter) Lift() (*ir.Module, error) {
	m := ir.NewModule()
	for _, file := range l.info.Files {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if fd.Name.Name == "_" {
				l.Debugf("%s skip blank function at %s", l.Module(), l.info.FSet.Position(fd.Pos()))
				continue
			}
			f, err := l.liftDecl(fd)
			if err != nil {
				return nil, err
			}
			if err := m.AddFunction(f); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (l *Lifter) liftDecl(fd *ast.FuncDecl) (ir.Function, error) {
	obj, ok := l.info.Types.Defs[fd.Name].(*types.Func)
	if !ok {
		return nil, errors.Errorf("%s: no type information for %s",
			l.info.FSet.Position(fd.Pos()), fd.Name.Name)
	}
	sig := obj.Type().(*types.Signature)
	if fd.Body == nil {
		params := make([]ir.Type, sig.Params().Len())
		for i := range params {
			params[i] = l.irType(sig.Params().At(i).Type())
		}
		return ir.NewExtFunction(fd.Name.Name, params...), nil
	}
	if fd.Recv == nil {
		f, err := l.LiftFunc(fd)
		if err == nil {
			l.Debugw("lifted", "func", f.Name())
			return f, nil
		}
		if _, notStructured := errors.Cause(err).(*NotStructuredError); !notStructured {
			return nil, err
		}
		l.Infow("kept in SSA form", "func", fd.Name.Name, "reason", err.Error())
	}
	fn := l.info.Pkg.Prog.FuncValue(obj)
	if fn == nil {
		return nil, errors.Errorf("%s: no SSA function for %s",
			l.info.FSet.Position(fd.Pos()), obj.Name())
	}
	return ir.NewCFGFunction(fn.RelString(l.info.Pkg.Pkg), fn), nil
}

// LiftFunc converts a function declaration to a structured function.
// The error is a *NotStructuredError if fd uses unsupported control flow.
func (l *Lifter) LiftFunc(fd *ast.FuncDecl) (*ir.MLFunction, error) {
	if fd.Recv != nil {
		return nil, l.notStructured(fd, "method")
	}
	if fd.Type.TypeParams != nil && fd.Type.TypeParams.NumFields() > 0 {
		return nil, l.notStructured(fd, "generic function")
	}
	if fd.Body == nil {
		return nil, l.notStructured(fd, "function has no body")
	}
	fl := &funcLifter{
		Lifter: l,
		fn:     ir.NewMLFunction(fd.Name.Name),
		env:    make(map[types.Object]ir.Value),
	}
	for _, field := range fd.Type.Params.List {
		for _, name := range field.Names {
			obj := l.info.Types.Defs[name]
			if obj == nil {
				fl.fn.AddArgument("", l.irType(l.info.Types.TypeOf(field.Type)))
				continue
			}
			fl.env[obj] = fl.fn.AddArgument(name.Name, l.irType(obj.Type()))
		}
		if len(field.Names) == 0 {
			fl.fn.AddArgument("", l.irType(l.info.Types.TypeOf(field.Type)))
		}
	}
	if err := fl.block(ir.NewBuilder(fl.fn.Body()), fd.Body.List, true); err != nil {
		return nil, err
	}
	return fl.fn, nil
}

func (l *Lifter) notStructured(n ast.Node, format string, args ...interface{}) error {
	return errors.WithStack(&NotStructuredError{
		Pos:    l.info.FSet.Position(n.Pos()),
		Reason: fmt.Sprintf(format, args...),
	})
}

// irType maps a Go type to an IR type.
func (l *Lifter) irType(t types.Type) ir.Type {
	if b, ok := t.(*types.Basic); ok {
		switch b.Kind() {
		case types.Int, types.Int64, types.Uint, types.Uint64, types.Uintptr:
			return ir.I64
		case types.Int32, types.Uint32:
			return ir.I32
		case types.Bool:
			return ir.Bool
		case types.Float32:
			return ir.F32
		case types.Float64:
			return ir.Type("f64")
		}
	}
	return ir.Type(types.TypeString(t, types.RelativeTo(l.info.Pkg.Pkg)))
}
