package pass

import (
	"github.com/fatih/color"
	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
)

// Pipeline runs passes in sequence.
type Pipeline struct {
	passes []Pass

	// VerifyEach runs ir.VerifyModule after every pass.
	VerifyEach bool

	root   *Logger // Handed to passes.
	logger *Logger
}

// NewPipeline returns a verifying pipeline of passes.
func NewPipeline(passes ...Pass) *Pipeline {
	p := &Pipeline{passes: passes, VerifyEach: true}
	p.SetLogger(NopLogger())
	return p
}

// Add appends a pass to the pipeline.
func (p *Pipeline) Add(ps Pass) {
	p.passes = append(p.passes, ps)
}

func (p *Pipeline) Passes() []Pass { return p.passes }

// SetLogger sets logger for the Pipeline and its passes.
func (p *Pipeline) SetLogger(l *Logger) {
	p.root = l
	p.logger = l.WithModule("pipe ", color.FgBlue)
}

// Run runs every pass on m and reports whether any pass changed it.
// It stops at the first failing pass or failed verification.
func (p *Pipeline) Run(m *ir.Module) (bool, error) {
	changed := false
	for _, ps := range p.passes {
		if ls, ok := ps.(LogSetter); ok {
			ls.SetLogger(p.root)
		}
		p.logger.Debugf("%s run %s", p.logger.Module(), ps.Name())
		c, err := ps.RunOnModule(m)
		if err != nil {
			return changed, errors.Wrapf(err, "pass %s", ps.Name())
		}
		changed = changed || c
		p.logger.Infow("pass finished", "module", p.logger.Module(), "pass", ps.Name(), "changed", c)
		if p.VerifyEach {
			if err := ir.VerifyModule(m); err != nil {
				return changed, errors.Wrapf(err, "after pass %s", ps.Name())
			}
		}
	}
	return changed, nil
}
