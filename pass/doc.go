// Package pass is the pass management layer.
//
// A Pass transforms a whole ir.Module. Most transformations work one
// structured function at a time and implement FunctionPass instead;
// ForEachFunction turns a FunctionPass into a Pass that visits every
// MLFunction of a module in order and leaves functions in other forms alone.
//
// Passes are created by name from a Registry and run in sequence by a
// Pipeline, which can verify the module after every pass.
package pass
