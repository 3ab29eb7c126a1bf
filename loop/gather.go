package loop

import "github.com/nickng/mlpass/ir"

// InnermostLoops returns the loops of f that have no loop nested inside,
// in post order: a loop is listed after every loop that precedes it in a
// depth-first walk of the body.
//
// The walk visits every statement, including both branches of every
// conditional. f is not modified.
func InnermostLoops(f *ir.MLFunction) []*ir.ForStmt {
	var g gatherer
	g.walkBlock(f.Body())
	return g.loops
}

// gatherer stores innermost loops as it walks.
type gatherer struct {
	loops []*ir.ForStmt
}

// walkBlock walks all statements of b and reports whether b (transitively)
// contains a loop.
func (g *gatherer) walkBlock(b *ir.Block) bool {
	hasLoops := false
	for _, s := range b.Stmts() {
		if g.walk(s) {
			hasLoops = true
		}
	}
	return hasLoops
}

func (g *gatherer) walk(s ir.Stmt) bool {
	switch s := s.(type) {
	case *ir.ForStmt:
		if hasInnerLoops := g.walkBlock(s.Body()); !hasInnerLoops {
			g.loops = append(g.loops, s)
		}
		return true
	case *ir.IfStmt:
		inThen := g.walkBlock(s.Then())
		inElse := g.walkBlock(s.Else())
		return inThen || inElse
	case *ir.OperationStmt:
		return false
	}
	return false
}
