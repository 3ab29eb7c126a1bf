package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors of inserting a statement into a block.
var (
	ErrAttached = errors.New("statement already belongs to a block")
	ErrCycle    = errors.New("statement cannot be inserted into its own body")
)

// Block is an ordered list of statements.
//
// A Block is owned either by a statement (loop body, branch of a
// conditional) or by an MLFunction (function body).
type Block struct {
	stmts []Stmt

	parent Stmt        // Owning statement, nil for a function body.
	fn     *MLFunction // Owning function, only set for a function body.
}

// ParentStmt returns the statement owning b, or nil if b is a function body.
func (b *Block) ParentStmt() Stmt { return b.parent }

// Function returns the function whose body (transitively) contains b.
func (b *Block) Function() *MLFunction {
	for blk := b; blk != nil; {
		if blk.fn != nil {
			return blk.fn
		}
		if blk.parent == nil {
			return nil
		}
		blk = blk.parent.Block()
	}
	return nil
}

// Stmts returns the statements in order. The slice must not be modified.
func (b *Block) Stmts() []Stmt { return b.stmts }

func (b *Block) Len() int      { return len(b.stmts) }
func (b *Block) Empty() bool   { return len(b.stmts) == 0 }
func (b *Block) At(i int) Stmt { return b.stmts[i] }

// Index returns the position of s in b, or -1.
func (b *Block) Index(s Stmt) int {
	if s.Block() != b {
		return -1
	}
	for i, stmt := range b.stmts {
		if stmt == s {
			return i
		}
	}
	return -1
}

// Insert places s at position i, shifting later statements back.
// It panics if i is out of range.
func (b *Block) Insert(i int, s Stmt) error {
	if i < 0 || i > len(b.stmts) {
		panic(fmt.Sprintf("ir: insert position %d out of range [0,%d]", i, len(b.stmts)))
	}
	if s.Block() != nil {
		return ErrAttached
	}
	if b.within(s) {
		return ErrCycle
	}
	b.stmts = append(b.stmts, nil)
	copy(b.stmts[i+1:], b.stmts[i:])
	b.stmts[i] = s
	s.setBlock(b)
	return nil
}

// Append adds s at the end of b.
func (b *Block) Append(s Stmt) error {
	return b.Insert(len(b.stmts), s)
}

// Remove detaches s from b. It returns false if s is not in b.
func (b *Block) Remove(s Stmt) bool {
	i := b.Index(s)
	if i < 0 {
		return false
	}
	copy(b.stmts[i:], b.stmts[i+1:])
	b.stmts[len(b.stmts)-1] = nil
	b.stmts = b.stmts[:len(b.stmts)-1]
	s.setBlock(nil)
	return true
}

// within returns true if b is s itself or nested inside s.
func (b *Block) within(s Stmt) bool {
	for blk := b; blk != nil && blk.parent != nil; blk = blk.parent.Block() {
		if blk.parent == s {
			return true
		}
	}
	return false
}
