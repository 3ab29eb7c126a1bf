package ir

import (
	"github.com/pkg/errors"
)

// ErrDetached is the error when a statement must be in a block but is not.
var ErrDetached = errors.New("statement is not in a block")

// Builder creates statements at an insertion point.
//
// The insertion point is a position in a Block. Each insertion advances the
// position past the inserted statement, so consecutive insertions keep their
// order.
type Builder struct {
	block *Block
	pos   int
}

// NewBuilder returns a Builder inserting at the end of blk.
func NewBuilder(blk *Block) *Builder {
	b := new(Builder)
	b.SetInsertionPointToEnd(blk)
	return b
}

// SetInsertionPoint sets the insertion point to position pos of blk.
func (b *Builder) SetInsertionPoint(blk *Block, pos int) {
	b.block, b.pos = blk, pos
}

// SetInsertionPointToEnd sets the insertion point to the end of blk.
func (b *Builder) SetInsertionPointToEnd(blk *Block) {
	b.SetInsertionPoint(blk, blk.Len())
}

// SetInsertionPointBefore sets the insertion point immediately before s.
func (b *Builder) SetInsertionPointBefore(s Stmt) error {
	blk := s.Block()
	if blk == nil {
		return ErrDetached
	}
	b.SetInsertionPoint(blk, blk.Index(s))
	return nil
}

func (b *Builder) Block() *Block { return b.block }
func (b *Builder) Pos() int      { return b.pos }

// Insert places s at the insertion point.
func (b *Builder) Insert(s Stmt) error {
	if b.block == nil {
		return errors.New("builder has no insertion point")
	}
	if err := b.block.Insert(b.pos, s); err != nil {
		return err
	}
	b.pos++
	return nil
}

// mustInsert inserts a statement created by the builder itself, which
// cannot be attached elsewhere.
func (b *Builder) mustInsert(s Stmt) {
	if err := b.Insert(s); err != nil {
		panic(err)
	}
}

// CreateOperation creates an operation at the insertion point.
func (b *Builder) CreateOperation(name string, operands []Value, resultTypes []Type, attrs Attrs) *OperationStmt {
	op := NewOperationStmt(name, operands, resultTypes, attrs)
	b.mustInsert(op)
	return op
}

// CreateFor creates a loop with an empty body at the insertion point.
func (b *Builder) CreateFor(iv string, lower, upper, step int64) *ForStmt {
	f := NewForStmt(iv, lower, upper, step)
	b.mustInsert(f)
	return f
}

// CreateIf creates a conditional with empty branches at the insertion point.
func (b *Builder) CreateIf(cond Value) *IfStmt {
	s := NewIfStmt(cond)
	b.mustInsert(s)
	return s
}
