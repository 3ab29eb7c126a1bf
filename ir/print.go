package ir

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTo writes the textual form of every function of m to w, separated by
// blank lines.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for i, f := range m.funcs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		writeFunc(&buf, f)
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// WriteTo writes the textual form of f to w.
func (f *MLFunction) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	writeFunc(&buf, f)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (m *Module) String() string {
	var buf bytes.Buffer
	m.WriteTo(&buf)
	return buf.String()
}

func (f *MLFunction) String() string {
	var buf bytes.Buffer
	f.WriteTo(&buf)
	return buf.String()
}

func writeFunc(buf *bytes.Buffer, f Function) {
	switch f := f.(type) {
	case *MLFunction:
		p := &printer{buf: buf, names: NewNamer(f)}
		p.function(f)
	case *CFGFunction:
		fmt.Fprintf(buf, "cfgfunc @%s // %d blocks\n", f.name, f.NumBlocks())
	case *ExtFunction:
		params := make([]string, len(f.params))
		for i, t := range f.params {
			params[i] = t.String()
		}
		fmt.Fprintf(buf, "extfunc @%s(%s)\n", f.name, strings.Join(params, ", "))
	}
}

type printer struct {
	buf    *bytes.Buffer
	names  *Namer
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) function(f *MLFunction) {
	args := make([]string, len(f.args))
	for i, arg := range f.args {
		args[i] = fmt.Sprintf("%s: %s", p.names.Ref(arg), arg.typ)
	}
	p.line("mlfunc @%s(%s) {", f.name, strings.Join(args, ", "))
	p.block(f.body)
	p.line("}")
}

func (p *printer) block(b *Block) {
	p.indent++
	defer func() { p.indent-- }()
	for _, s := range b.stmts {
		p.stmt(s)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *ForStmt:
		p.line("for %s = %d to %d step %d {", p.names.Ref(s.iv), s.lower, s.upper, s.step)
		p.block(s.body)
		p.line("}")
	case *IfStmt:
		p.line("if %s {", p.names.Ref(s.cond))
		p.block(s.then)
		if !s.els.Empty() {
			p.line("} else {")
			p.block(s.els)
		}
		p.line("}")
	case *OperationStmt:
		p.line("%s", p.operation(s))
	}
}

func (p *printer) operation(op *OperationStmt) string {
	var buf bytes.Buffer
	if len(op.results) > 0 {
		for i, r := range op.results {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(p.names.Ref(r))
		}
		buf.WriteString(" = ")
	}
	operands := make([]string, len(op.operands))
	operandTypes := make([]string, len(op.operands))
	for i, v := range op.operands {
		operands[i] = p.names.Ref(v)
		operandTypes[i] = v.Type().String()
	}
	fmt.Fprintf(&buf, "%s(%s)", strconv.Quote(op.name), strings.Join(operands, ", "))
	if len(op.attrs) > 0 {
		buf.WriteByte(' ')
		buf.WriteString(op.attrs.String())
	}
	fmt.Fprintf(&buf, " : (%s) -> %s", strings.Join(operandTypes, ", "), resultTypeList(op.results))
	return buf.String()
}

func resultTypeList(results []*Result) string {
	if len(results) == 1 {
		return results[0].typ.String()
	}
	types := make([]string, len(results))
	for i, r := range results {
		types[i] = r.typ.String()
	}
	return "(" + strings.Join(types, ", ") + ")"
}
