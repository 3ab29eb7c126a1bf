// Package irfile reads and writes modules as YAML documents.
//
// A document lists functions. A structured function (kind ml, the default)
// has typed arguments and a body of statements; each statement has exactly
// one of op, for or if:
//
//	functions:
//	  - name: scale
//	    args: [{name: n, type: i64}]
//	    body:
//	      - for: {iv: i, lower: 0, upper: 3}
//	        body:
//	          - op: mul
//	            operands: ["%i", "%n", "2:i64"]
//	            results: [{name: x, type: i64}]
//	            attrs: {overflow: wrap}
//	  - name: ext
//	    kind: ext
//	    params: [i32]
//
// Operands are references to arguments, induction variables or earlier
// results ("%name", resolved lexically), or integer constants ("7" of type
// index, "7:i32" otherwise). The loop step defaults to 1. Functions in CFG
// form have no YAML representation and are written as kind cfg stubs, which
// read back as external declarations.
package irfile
