package irfile

import (
	"io"

	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Encode writes m as a YAML document.
func Encode(w io.Writer, m *ir.Module) error {
	doc := moduleDoc{Functions: make([]funcDoc, 0, len(m.Functions()))}
	for _, f := range m.Functions() {
		doc.Functions = append(doc.Functions, encodeFunc(f))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "cannot encode IR")
	}
	return errors.WithStack(enc.Close())
}

func encodeFunc(f ir.Function) funcDoc {
	switch f := f.(type) {
	case *ir.MLFunction:
		e := &encoder{names: ir.NewNamer(f)}
		fd := funcDoc{Name: f.Name()}
		for _, a := range f.Args() {
			fd.Args = append(fd.Args, argDoc{Name: e.names.Name(a), Type: a.Type().String()})
		}
		fd.Body = e.block(f.Body())
		return fd
	case *ir.ExtFunction:
		fd := funcDoc{Name: f.Name(), Kind: KindExt}
		for _, p := range f.Params() {
			fd.Params = append(fd.Params, p.String())
		}
		return fd
	}
	return funcDoc{Name: f.Name(), Kind: KindCFG}
}

type encoder struct {
	names *ir.Namer
}

func (e *encoder) ref(v ir.Value) string {
	if c, ok := v.(*ir.Const); ok {
		return formatConst(c)
	}
	return e.names.Ref(v)
}

func (e *encoder) block(b *ir.Block) []stmtDoc {
	var stmts []stmtDoc
	for _, s := range b.Stmts() {
		stmts = append(stmts, e.stmt(s))
	}
	return stmts
}

func (e *encoder) stmt(s ir.Stmt) stmtDoc {
	switch s := s.(type) {
	case *ir.ForStmt:
		fd := &forDoc{IV: e.names.Name(s.IV()), Lower: s.LowerBound(), Upper: s.UpperBound()}
		if s.Step() != 1 {
			step := s.Step()
			fd.Step = &step
		}
		return stmtDoc{For: fd, Body: e.block(s.Body())}
	case *ir.IfStmt:
		return stmtDoc{
			If:   &ifDoc{Cond: e.ref(s.Cond())},
			Then: e.block(s.Then()),
			Else: e.block(s.Else()),
		}
	case *ir.OperationStmt:
		sd := stmtDoc{Op: s.Name()}
		for _, v := range s.Operands() {
			sd.Operands = append(sd.Operands, e.ref(v))
		}
		for _, r := range s.Results() {
			sd.Results = append(sd.Results, argDoc{Name: e.names.Name(r), Type: r.Type().String()})
		}
		if len(s.Attrs()) > 0 {
			sd.Attrs = &yaml.Node{Kind: yaml.MappingNode}
			for _, k := range s.Attrs().Keys() {
				sd.Attrs.Content = append(sd.Attrs.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
					encodeAttr(s.Attrs()[k]))
			}
		}
		return sd
	}
	panic("irfile: unknown statement")
}
