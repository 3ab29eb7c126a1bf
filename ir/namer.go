package ir

import (
	"fmt"
	"strconv"
)

// Namer assigns unique printable names to the values of a function.
//
// Arguments, induction variables and results keep their name hints when
// those are free; clashing hints get a numeric suffix, and anonymous values
// are numbered in definition order (results) or by loop depth-first order
// (induction variables, prefixed with i).
type Namer struct {
	names  map[Value]string
	taken  map[string]bool
	suffix map[string]int

	nextResult int
	nextLoop   int
}

// NewNamer names all values defined in f.
func NewNamer(f *MLFunction) *Namer {
	n := &Namer{
		names:  make(map[Value]string),
		taken:  make(map[string]bool),
		suffix: make(map[string]int),
	}
	for i, arg := range f.args {
		base := arg.name
		if base == "" {
			base = fmt.Sprintf("arg%d", i)
		}
		n.names[arg] = n.unique(base)
	}
	n.block(f.body)
	return n
}

func (n *Namer) block(b *Block) {
	for _, s := range b.stmts {
		switch s := s.(type) {
		case *ForStmt:
			base := s.iv.name
			if base == "" {
				base = fmt.Sprintf("i%d", n.nextLoop)
			}
			n.nextLoop++
			n.names[s.iv] = n.unique(base)
			n.block(s.body)
		case *IfStmt:
			n.block(s.then)
			n.block(s.els)
		case *OperationStmt:
			for _, r := range s.results {
				n.names[r] = n.unique(n.resultBase(r))
			}
		}
	}
}

func (n *Namer) resultBase(r *Result) string {
	if r.name != "" {
		return r.name
	}
	base := strconv.Itoa(n.nextResult)
	n.nextResult++
	return base
}

func (n *Namer) unique(base string) string {
	name := base
	for n.taken[name] {
		n.suffix[base]++
		name = fmt.Sprintf("%s_%d", base, n.suffix[base])
	}
	n.taken[name] = true
	return name
}

// Name returns the name of v without sigil. Constants are named by their
// literal value. Values not defined in the function get a fresh name.
func (n *Namer) Name(v Value) string {
	if c, ok := v.(*Const); ok {
		return c.String()
	}
	if name, ok := n.names[v]; ok {
		return name
	}
	name := n.unique("undef")
	n.names[v] = name
	return name
}

// Ref returns the operand spelling of v: %name, or the literal of a Const.
func (n *Namer) Ref(v Value) string {
	if c, ok := v.(*Const); ok {
		return c.String()
	}
	return "%" + n.Name(v)
}
