package ssa

import (
	"regexp"
	"strings"

	"golang.org/x/tools/go/ssa"
)

var recvPath = regexp.MustCompile(`^\((?P<recv>[^)]+)\)\.(?P<fn>.+)$`)

// FindFunc parses path and returns the matching function of Funcs, or nil.
// path is a function name, optionally qualified with the package name
// (e.g. main.foo), or a method (e.g. T.m or (*T).m).
func (info *Info) FindFunc(path string) *ssa.Function {
	recv, fnName := info.parseFuncPath(path)
	for _, f := range info.Funcs() {
		if f.Name() != fnName {
			continue
		}
		sig := f.Signature
		if recv == "" && sig.Recv() == nil {
			return f
		}
		if recv != "" && sig.Recv() != nil && recvName(f) == recv {
			return f
		}
	}
	return nil
}

// parseFuncPath splits path to receiver and function segments.
// A leading package name segment is dropped.
func (info *Info) parseFuncPath(path string) (recv, fnName string) {
	if submatches := recvPath.FindStringSubmatch(path); len(submatches) == 3 {
		return submatches[1], submatches[2]
	}
	parts := strings.Split(path, ".")
	switch len(parts) {
	case 1:
		return "", path
	case 2:
		if parts[0] == info.Pkg.Pkg.Name() {
			return "", parts[1]
		}
		return parts[0], parts[1]
	}
	return "", path
}

// recvName returns the receiver type of method f relative to its package,
// e.g. T or *T.
func recvName(f *ssa.Function) string {
	t := f.Signature.Recv().Type()
	name := t.String()
	if f.Pkg != nil {
		prefix := f.Pkg.Pkg.Path() + "."
		name = strings.Replace(name, prefix, "", 1)
	}
	return name
}
