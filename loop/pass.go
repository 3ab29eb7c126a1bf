package loop

import (
	"github.com/fatih/color"
	"github.com/nickng/mlpass/ir"
	"github.com/nickng/mlpass/pass"
)

// UnrollPassName is the registry name of the unroll pass.
const UnrollPassName = "loop-unroll"

// CreateUnrollPass creates a pass that fully unrolls the innermost loops of
// every structured function.
func CreateUnrollPass() pass.FunctionPass {
	p := new(unrollPass)
	p.SetLogger(pass.NopLogger())
	return p
}

type unrollPass struct {
	*pass.Logger
}

func (p *unrollPass) Name() string { return UnrollPassName }

// SetLogger sets logger for the unroll pass.
func (p *unrollPass) SetLogger(l *pass.Logger) {
	p.Logger = l.WithModule("unroll", color.FgCyan)
}

// RunOnMLFunction unrolls all the innermost loops of f.
// Every loop is checked before the first one is unrolled, so f is left
// untouched when any of them cannot be unrolled.
func (p *unrollPass) RunOnMLFunction(f *ir.MLFunction) (bool, error) {
	loops := InnermostLoops(f)
	p.Debugf("%s @%s: %d innermost loop(s)", p.Module(), f.Name(), len(loops))
	for _, l := range loops {
		if err := CheckUnrollable(l); err != nil {
			return false, err
		}
	}
	changed := false
	for _, l := range loops {
		info := InfoOf(l)
		if err := Unroll(l); err != nil {
			return changed, err
		}
		p.Debugw("unrolled loop", "func", f.Name(), "loop", info.String(), "copies", info.TripCount())
		changed = true
	}
	return changed, nil
}
