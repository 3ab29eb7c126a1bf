package ir

import (
	"github.com/pkg/errors"
)

// Module is an ordered collection of uniquely named functions.
type Module struct {
	funcs  []Function
	byName map[string]Function
}

func NewModule() *Module {
	return &Module{byName: make(map[string]Function)}
}

// AddFunction appends f to m.
func (m *Module) AddFunction(f Function) error {
	if _, exists := m.byName[f.Name()]; exists {
		return errors.Errorf("module already has function @%s", f.Name())
	}
	if f.Module() != nil {
		return errors.Errorf("function @%s belongs to another module", f.Name())
	}
	f.setModule(m)
	m.funcs = append(m.funcs, f)
	m.byName[f.Name()] = f
	return nil
}

// Functions returns the functions in insertion order.
func (m *Module) Functions() []Function { return m.funcs }

// Func looks up a function by name, nil if not found.
func (m *Module) Func(name string) Function { return m.byName[name] }

// MLFunctions returns the structured functions in insertion order.
func (m *Module) MLFunctions() []*MLFunction {
	var fns []*MLFunction
	for _, f := range m.funcs {
		if fn, ok := f.(*MLFunction); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
