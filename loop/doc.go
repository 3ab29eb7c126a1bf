// Package loop provides loop utilities and the full loop unrolling pass.
//
// InnermostLoops gathers the loops of a structured function that contain no
// other loop. Unroll replaces one such loop by copies of its body, one per
// iteration, placed where the loop was. The induction variable is replaced by
// the constant value of each iteration.
//
// The pass returned by CreateUnrollPass gathers first and mutates after, so
// the traversal never sees a half-transformed body.
package loop
