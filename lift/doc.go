// Package lift converts Go source functions into the structured IR.
//
// A top-level function is lifted to an ir.MLFunction when its body is built
// from counted for loops with constant bounds, if/else chains, plain blocks
// and simple statements, with at most one return as its last statement.
// Simple statements and if conditions are kept opaque: they become go.*
// operations carrying their source text in a src attribute, with the
// parameters and induction variables they refer to as operands.
//
// A Go loop runs for a half-open or closed range with any step, while the IR
// counts (upper - lower + 1) / step iterations. Lifted loops get an upper
// bound chosen so that both counts agree, so the printed bound can differ
// from the one in the source.
//
// Any other function keeps its SSA form as an ir.CFGFunction, and functions
// without a body become ir.ExtFunction declarations.
package lift
