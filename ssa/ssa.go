// Package ssa is a library to build and work with SSA.
// For most part the package contains helper or wrapper functions to use the
// packages in Go project's extra tools.
//
// In particular, the SSA IR is from golang.org/x/tools/go/ssa. The Go source
// front end of this module starts from the package built here: functions
// that cannot be lifted to structured form are kept as SSA functions.
//
package ssa

import (
	"go/ast"
	"go/token"
	"go/types"
	"io"
	"sort"

	"golang.org/x/tools/go/ssa"
)

// Info holds the results of a SSA build of one package.
// To populate this structure, the 'build' subpackage should be used.
//
type Info struct {
	FSet  *token.FileSet // FileSet for parsed source files.
	Files []*ast.File    // Parsed source files, in the order given.
	Pkg   *ssa.Package   // SSA IR of the package.
	Types *types.Info    // Type information of Files.

	BldLog io.Writer // Build log.
}

// Funcs returns the source-level functions and methods of the package,
// sorted by position. Synthetic functions (package initialiser, wrappers) and
// anonymous functions are not included.
func (info *Info) Funcs() []*ssa.Function {
	var funcs members
	prog := info.Pkg.Prog
	for _, mem := range info.Pkg.Members {
		switch mem := mem.(type) {
		case *ssa.Function:
			if mem.Synthetic == "" {
				funcs = append(funcs, mem)
			}
		case *ssa.Type:
			named, ok := mem.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			if _, isIface := named.Underlying().(*types.Interface); isIface {
				continue
			}
			seen := make(map[*ssa.Function]bool)
			for _, recv := range []types.Type{named, types.NewPointer(named)} {
				mset := prog.MethodSets.MethodSet(recv)
				for i := 0; i < mset.Len(); i++ {
					fn := prog.MethodValue(mset.At(i))
					if fn != nil && fn.Synthetic == "" && fn.Pkg == info.Pkg && !seen[fn] {
						seen[fn] = true
						funcs = append(funcs, fn)
					}
				}
			}
		}
	}
	sort.Sort(funcs)
	fns := make([]*ssa.Function, len(funcs))
	for i, f := range funcs {
		fns[i] = f.(*ssa.Function)
	}
	return fns
}
