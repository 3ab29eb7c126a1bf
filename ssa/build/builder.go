package build

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"io"

	"github.com/nickng/mlpass/ssa"
	"github.com/pkg/errors"
)

// Builder builds SSA IR and metainfo.
type Builder interface {
	Build() (*ssa.Info, error)
}

// srcParser is the program source, which can be parsed into files.
type srcParser interface {
	parse(fset *token.FileSet) ([]*ast.File, error)
}

// FileSrc is a set of filenames.
type FileSrc struct {
	Files []string
}

// FromFiles returns a non-nil Builder from a slice of filenames.
func FromFiles(files []string) Configurer {
	return newConfig(&FileSrc{Files: files})
}

func (s *FileSrc) parse(fset *token.FileSet) ([]*ast.File, error) {
	if len(s.Files) == 0 {
		return nil, errors.New("no source files")
	}
	var files []*ast.File
	for _, filename := range s.Files {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse file: %s", filename)
		}
		files = append(files, f)
	}
	return files, nil
}

// CachedSrc is source file from a reader.
type CachedSrc struct {
	cached []byte
	err    error
}

// FromReader returns a non-nil Builder for a reader.
// This is typically used for testing or building a temporary file.
// Read errors are reported by Build.
func FromReader(r io.Reader) Configurer {
	b, err := io.ReadAll(r)
	return newConfig(&CachedSrc{cached: b, err: errors.Wrap(err, "failed to read from reader")})
}

func (s *CachedSrc) parse(fset *token.FileSet) ([]*ast.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	f, err := parser.ParseFile(fset, "tmp.go", bytes.NewReader(s.cached), parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse source")
	}
	return []*ast.File{f}, nil
}
