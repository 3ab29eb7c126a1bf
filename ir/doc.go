// Package ir is the structured intermediate representation that passes in
// this module work on.
//
// A Module holds Functions in one of three forms. Only MLFunctions carry a
// structured body: a Block of statements, where each statement is a ForStmt
// (counted loop with constant bounds), an IfStmt (two nested blocks) or an
// OperationStmt (opaque operation with operands, results and attributes).
// CFGFunctions wrap a go/ssa function and ExtFunctions are declarations; both
// are opaque to structured passes.
//
// Statements form a strict tree. Every statement knows the Block that holds
// it, and a Block knows the statement or function that owns it.
package ir
