package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// VerifyError reports a broken structural invariant in a function.
type VerifyError struct {
	Func string
	Kind Kind
	Msg  string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify @%s: %s: %s", e.Func, e.Kind, e.Msg)
}

// VerifyModule verifies every structured function of m.
func VerifyModule(m *Module) error {
	for _, f := range m.MLFunctions() {
		if err := Verify(f); err != nil {
			return err
		}
	}
	return nil
}

// Verify checks the structural invariants of f:
// statements point back to the block holding them, loop steps are nonzero,
// conditionals have a condition, and every operand is visible where it is
// used. Visible values are constants, the function arguments, induction
// variables of enclosing loops and results of earlier operations in the same
// or an enclosing block.
func Verify(f *MLFunction) error {
	v := &verifier{fn: f, visible: make(map[Value]bool)}
	for _, arg := range f.args {
		v.visible[arg] = true
	}
	if f.body.fn != f {
		return errors.WithStack(&VerifyError{Func: f.name, Kind: OperationKind, Msg: "body not owned by function"})
	}
	return v.block(f.body)
}

type verifier struct {
	fn      *MLFunction
	visible map[Value]bool
}

func (v *verifier) errorf(k Kind, format string, args ...interface{}) error {
	return errors.WithStack(&VerifyError{Func: v.fn.name, Kind: k, Msg: fmt.Sprintf(format, args...)})
}

func (v *verifier) block(b *Block) error {
	var defined []Value
	defer func() {
		for _, val := range defined {
			delete(v.visible, val)
		}
	}()
	for i, s := range b.stmts {
		if s.Block() != b {
			return v.errorf(s.Kind(), "statement #%d does not point back to its block", i)
		}
		switch s := s.(type) {
		case *ForStmt:
			if s.step == 0 {
				return v.errorf(ForKind, "loop %%%s has zero step", s.iv.name)
			}
			if s.body.parent != s {
				return v.errorf(ForKind, "loop body not owned by loop")
			}
			v.visible[s.iv] = true
			err := v.block(s.body)
			delete(v.visible, s.iv)
			if err != nil {
				return err
			}
		case *IfStmt:
			if s.cond == nil {
				return v.errorf(IfKind, "missing condition")
			}
			if !v.isVisible(s.cond) {
				return v.errorf(IfKind, "condition is not visible here")
			}
			if s.then.parent != s || s.els.parent != s {
				return v.errorf(IfKind, "branch not owned by conditional")
			}
			if err := v.block(s.then); err != nil {
				return err
			}
			if err := v.block(s.els); err != nil {
				return err
			}
		case *OperationStmt:
			for j, operand := range s.operands {
				if operand == nil {
					return v.errorf(OperationKind, "%q: operand #%d is nil", s.name, j)
				}
				if !v.isVisible(operand) {
					return v.errorf(OperationKind, "%q: operand #%d is not visible here", s.name, j)
				}
			}
			for j, r := range s.results {
				if r.op != s || r.index != j {
					return v.errorf(OperationKind, "%q: result #%d does not point back to its operation", s.name, j)
				}
				v.visible[r] = true
				defined = append(defined, r)
			}
		}
	}
	return nil
}

func (v *verifier) isVisible(val Value) bool {
	if _, ok := val.(*Const); ok {
		return true
	}
	return v.visible[val]
}
