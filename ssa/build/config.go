package build

import (
	"go/importer"
	"go/token"
	"go/types"
	"io"
	"log"

	"github.com/nickng/mlpass/ssa"
	"github.com/pkg/errors"
	gossa "golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Configurer is a Builder whose build options can still be changed.
type Configurer interface {
	Builder
	WithBuildLog(l io.Writer, flags int) Configurer
	WithImporter(imp types.Importer) Configurer
}

// Config represents a build configuration.
type Config struct {
	bldLog    io.Writer // Build log.
	bldLFlags int       // Build log flags.

	importer types.Importer // Importer for dependencies, nil for default.

	src srcParser // src points to the program source.
}

func newConfig(src srcParser) *Config {
	return &Config{
		bldLog:    io.Discard,
		bldLFlags: log.LstdFlags,
		src:       src,
	}
}

// WithBuildLog adds build log to config.
func (c *Config) WithBuildLog(l io.Writer, flags int) Configurer {
	c.bldLog = l
	c.bldLFlags = flags
	return c
}

// WithImporter sets the importer used to type check imported packages.
func (c *Config) WithImporter(imp types.Importer) Configurer {
	c.importer = imp
	return c
}

// Build parses, type checks and builds the SSA IR of the source package.
// Imported packages are loaded from export data and not built.
func (c *Config) Build() (*ssa.Info, error) {
	bldLog := log.New(c.bldLog, "ssabuild: ", c.bldLFlags)

	fset := token.NewFileSet()
	files, err := c.src.parse(fset)
	if err != nil {
		return nil, err
	}
	bldLog.Printf("Parsed %d file(s)", len(files))

	imp := c.importer
	if imp == nil {
		imp = importer.Default()
	}
	name := files[0].Name.Name
	tconf := &types.Config{Importer: imp}
	pkg, tinfo, err := ssautil.BuildPackage(tconf, fset, types.NewPackage(name, name), files, gossa.GlobalDebug|gossa.BareInits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to type check package")
	}
	bldLog.Printf("Package %s type checked and built", name)

	return &ssa.Info{
		FSet:   fset,
		Files:  files,
		Pkg:    pkg,
		Types:  tinfo,
		BldLog: c.bldLog,
	}, nil
}
