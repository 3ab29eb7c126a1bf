package pass

import (
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Logger encapsulates a Logger and module which it belongs to.
// Use this through SetLogger() of a pass.
type Logger struct {
	*zap.SugaredLogger
	module string
	plain  bool // Module names are never coloured.
}

// LogSetter is implemented by passes that log.
type LogSetter interface {
	SetLogger(*Logger)
}

// NewLogger wraps l.
func NewLogger(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// NewPlainLogger wraps l for machine readable output: module names derived
// from it are not coloured, whatever the terminal supports.
func NewPlainLogger(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar(), plain: true}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return NewLogger(zap.NewNop())
}

// WithModule returns a Logger sharing the output of l for module.
// The module name is coloured with attrs unless l is plain.
func (l *Logger) WithModule(module string, attrs ...color.Attribute) *Logger {
	if !l.plain && len(attrs) > 0 {
		module = color.New(attrs...).Sprint(module)
	}
	return &Logger{SugaredLogger: l.SugaredLogger, module: module, plain: l.plain}
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}
