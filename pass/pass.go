package pass

import (
	"github.com/fatih/color"
	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
)

// Pass is a transformation of a whole module.
type Pass interface {
	Name() string

	// RunOnModule transforms m in place and reports whether it changed.
	RunOnModule(m *ir.Module) (changed bool, err error)
}

// FunctionPass is a transformation of one structured function.
type FunctionPass interface {
	Name() string

	// RunOnMLFunction transforms f in place and reports whether it changed.
	RunOnMLFunction(f *ir.MLFunction) (changed bool, err error)
}

// ForEachFunction returns a Pass running fp on every MLFunction of a module.
func ForEachFunction(fp FunctionPass) Pass {
	return &functionPass{FunctionPass: fp, Logger: NopLogger()}
}

// functionPass runs a FunctionPass over a module.
type functionPass struct {
	FunctionPass
	*Logger
}

func (p *functionPass) SetLogger(l *Logger) {
	p.Logger = l.WithModule("fn   ", color.FgMagenta)
	if ls, ok := p.FunctionPass.(LogSetter); ok {
		ls.SetLogger(l)
	}
}

// RunOnModule visits the functions of m in order. CFG functions and external
// declarations are skipped. The first error stops the traversal.
func (p *functionPass) RunOnModule(m *ir.Module) (bool, error) {
	changed := false
	for _, fn := range m.Functions() {
		f, ok := fn.(*ir.MLFunction)
		if !ok {
			p.Debugf("%s %s: skip @%s (%T)", p.Module(), p.Name(), fn.Name(), fn)
			continue
		}
		c, err := p.RunOnMLFunction(f)
		if err != nil {
			return changed, errors.Wrapf(err, "@%s", f.Name())
		}
		if c {
			p.Debugf("%s %s: changed @%s", p.Module(), p.Name(), f.Name())
		}
		changed = changed || c
	}
	return changed, nil
}
