package loop

import (
	"fmt"

	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
)

// ErrZeroStep is the error when a loop has a zero step.
var ErrZeroStep = errors.New("loop step is zero")

// ErrTripCountOverflow is the error when the number of iterations of a loop
// does not fit in an int64.
var ErrTripCountOverflow = errors.New("loop trip count overflows int64")

// UnsupportedStmtError is the error when a loop selected for unrolling has a
// body statement that is not an operation.
type UnsupportedStmtError struct {
	Loop  *ir.ForStmt
	Index int     // Position of the statement in the loop body.
	Kind  ir.Kind // Kind of the statement.
}

func (e *UnsupportedStmtError) Error() string {
	return fmt.Sprintf("cannot unroll loop (%s): body statement #%d is a %s statement, only operations are supported",
		InfoOf(e.Loop), e.Index, e.Kind)
}

// CheckUnrollable returns an error if Unroll would reject f.
// f must be attached to a block, have a nonzero step, a trip count that
// fits in an int64 and a body consisting of operations only.
func CheckUnrollable(f *ir.ForStmt) error {
	if f.Block() == nil {
		return errors.WithStack(ir.ErrDetached)
	}
	if f.Step() == 0 {
		return errors.WithStack(ErrZeroStep)
	}
	if _, err := InfoOf(f).Iterations(); err != nil {
		return errors.WithStack(err)
	}
	for i, s := range f.Body().Stmts() {
		if s.Kind() != ir.OperationKind {
			return errors.WithStack(&UnsupportedStmtError{Loop: f, Index: i, Kind: s.Kind()})
		}
	}
	return nil
}

// Unroll unrolls f completely: the body is copied once per iteration in
// front of f, then f is removed from its block. A loop with zero iterations
// is simply removed.
//
// In each copy, uses of the induction variable become the constant value of
// that iteration, and uses of results of earlier operations of the body refer
// to the copies made for the same iteration. Other operands are kept.
//
// If f cannot be unrolled (see CheckUnrollable) nothing is modified.
func Unroll(f *ir.ForStmt) error {
	if err := CheckUnrollable(f); err != nil {
		return err
	}
	info := InfoOf(f)
	b := new(ir.Builder)
	if err := b.SetInsertionPointBefore(f); err != nil {
		return errors.WithStack(err)
	}
	n := info.TripCount()
	for i := int64(0); i < n; i++ {
		cloneBody(b, f, ir.NewConst(info.ValueAt(i), ir.Index))
	}
	ir.Erase(f)
	return nil
}

// cloneBody emits one copy of the body of f where the induction variable
// is iv.
func cloneBody(b *ir.Builder, f *ir.ForStmt, iv ir.Value) {
	mapping := map[ir.Value]ir.Value{f.IV(): iv}
	for _, s := range f.Body().Stmts() {
		op := s.(*ir.OperationStmt)
		operands := make([]ir.Value, op.NumOperands())
		for i, v := range op.Operands() {
			if mapped, ok := mapping[v]; ok {
				operands[i] = mapped
			} else {
				operands[i] = v
			}
		}
		clone := b.CreateOperation(op.Name(), operands, op.ResultTypes(), op.Attrs().Clone())
		for i, r := range op.Results() {
			clone.Result(i).SetName(r.Name())
			mapping[r] = clone.Result(i)
		}
	}
}
