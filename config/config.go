// Package config holds the settings of an optimisation run.
//
// Settings come from, in increasing priority: Default, a CUE pipeline file
// (LoadFile), the environment (FromEnv) and command line flags, which the
// caller applies last.
package config

import (
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
)

// Output formats.
const (
	EmitText = "text"
	EmitYAML = "yaml"
)

// Environment variables read by FromEnv.
const (
	EnvPasses   = "MLOPT_PASSES"    // Comma separated pass names.
	EnvEmit     = "MLOPT_EMIT"      // Output format.
	EnvLog      = "MLOPT_LOG"       // Log path.
	EnvNoVerify = "MLOPT_NO_VERIFY" // Disable verification.
	EnvNoColor  = "NO_COLOR"
)

// Config is the configuration of an optimisation run.
type Config struct {
	Passes  []string // Pass names, in pipeline order.
	Verify  bool     // Verify the module after every pass.
	Emit    string   // Output format, EmitText or EmitYAML.
	LogPath string   // Log destination, "-" for stderr, empty for none.
	NoColor bool     // Disable coloured output.
}

// Default returns the default configuration: no passes, verification on,
// textual output.
func Default() *Config {
	return &Config{Verify: true, Emit: EmitText}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.Emit {
	case EmitText, EmitYAML:
	default:
		return errors.Errorf("unknown output format %q (want %s or %s)", c.Emit, EmitText, EmitYAML)
	}
	for _, p := range c.Passes {
		if p == "" {
			return errors.New("empty pass name")
		}
	}
	return nil
}

// schema is the shape of the pipeline value in a pipeline file.
const schema = `
#Pipeline: {
	passes?:  [...string]
	verify?:  bool
	emit?:    "text" | "yaml"
	log?:     string
	noColor?: bool
}
`

// pipeline is the decoded pipeline value. Unset fields stay nil.
type pipeline struct {
	Passes  []string `json:"passes"`
	Verify  *bool    `json:"verify"`
	Emit    *string  `json:"emit"`
	Log     *string  `json:"log"`
	NoColor *bool    `json:"noColor"`
}

// checkFields rejects pipeline fields the schema does not know.
func checkFields(v cue.Value, filename string) error {
	it, err := v.Fields(cue.Optional(true))
	if err != nil {
		return errors.Wrapf(err, "%s: pipeline", filename)
	}
	for it.Next() {
		switch name := it.Selector().String(); name {
		case "passes", "verify", "emit", "log", "noColor":
		default:
			return errors.Errorf("%s: pipeline.%s: field not allowed", filename, name)
		}
	}
	return nil
}

// LoadFile applies the pipeline file at path to c.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "cannot read pipeline file")
	}
	return c.Load(b, path)
}

// Load applies a CUE pipeline document to c. The document must have a
// top-level pipeline field matching the pipeline schema, for example
//
//	pipeline: {
//		passes: ["loop-unroll"]
//		emit:   "yaml"
//	}
//
// Fields not set in the document leave c unchanged. filename is used in
// error messages.
func (c *Config) Load(src []byte, filename string) error {
	ctx := cuecontext.New()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Pipeline"))
	if err := def.Err(); err != nil {
		return errors.Wrap(err, "pipeline schema")
	}
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return errors.Wrapf(err, "%s", filename)
	}
	pv := v.LookupPath(cue.ParsePath("pipeline"))
	if !pv.Exists() {
		return errors.Errorf("%s: no pipeline field", filename)
	}
	if err := checkFields(pv, filename); err != nil {
		return err
	}
	pv = def.Unify(pv)
	if err := pv.Validate(cue.Concrete(true)); err != nil {
		return errors.Wrapf(err, "%s", filename)
	}
	var p pipeline
	if err := pv.Decode(&p); err != nil {
		return errors.Wrapf(err, "%s", filename)
	}
	if p.Passes != nil {
		c.Passes = p.Passes
	}
	if p.Verify != nil {
		c.Verify = *p.Verify
	}
	if p.Emit != nil {
		c.Emit = *p.Emit
	}
	if p.Log != nil {
		c.LogPath = *p.Log
	}
	if p.NoColor != nil {
		c.NoColor = *p.NoColor
	}
	return nil
}

// FromEnv applies the environment variables that are set to c.
func (c *Config) FromEnv() {
	if s := env.Str(EnvPasses); s != "" {
		c.Passes = SplitPasses(s)
	}
	if s := env.Str(EnvEmit); s != "" {
		c.Emit = s
	}
	if s := env.Str(EnvLog); s != "" {
		c.LogPath = s
	}
	if env.Bool(EnvNoVerify) {
		c.Verify = false
	}
	if env.Str(EnvNoColor) != "" {
		c.NoColor = true
	}
}

// SplitPasses splits a comma separated list of pass names.
func SplitPasses(s string) []string {
	var passes []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			passes = append(passes, p)
		}
	}
	return passes
}
