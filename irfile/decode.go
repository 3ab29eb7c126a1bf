package irfile

import (
	"io"
	"os"
	"strings"

	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a module from the YAML file at path.
func LoadFile(path string) (*ir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open IR file")
	}
	defer f.Close()
	m, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// Decode reads a module from a YAML document. Unknown fields are rejected.
func Decode(r io.Reader) (*ir.Module, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc moduleDoc
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return ir.NewModule(), nil
		}
		return nil, errors.Wrap(err, "cannot decode IR")
	}
	m := ir.NewModule()
	for i, fd := range doc.Functions {
		f, err := decodeFunc(fd)
		if err != nil {
			return nil, errors.Wrapf(err, "function #%d", i)
		}
		if err := m.AddFunction(f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeFunc(fd funcDoc) (ir.Function, error) {
	if fd.Name == "" {
		return nil, errors.New("function has no name")
	}
	switch fd.Kind {
	case KindML, "":
		if len(fd.Params) > 0 {
			return nil, errors.Errorf("@%s: params are for ext functions, use args", fd.Name)
		}
		d := &decoder{fn: ir.NewMLFunction(fd.Name)}
		d.push()
		for _, a := range fd.Args {
			if err := d.define(a.Name, d.fn.AddArgument(a.Name, ir.Type(a.Type))); err != nil {
				return nil, err
			}
		}
		if err := d.block(ir.NewBuilder(d.fn.Body()), fd.Body); err != nil {
			return nil, err
		}
		return d.fn, nil
	case KindExt, KindCFG:
		if len(fd.Args) > 0 || len(fd.Body) > 0 {
			return nil, errors.Errorf("@%s: %s function cannot have args or body", fd.Name, fd.Kind)
		}
		params := make([]ir.Type, len(fd.Params))
		for i, p := range fd.Params {
			params[i] = ir.Type(p)
		}
		return ir.NewExtFunction(fd.Name, params...), nil
	}
	return nil, errors.Errorf("@%s: unknown function kind %q", fd.Name, fd.Kind)
}

// decoder builds the body of one function. Names are scoped by block.
type decoder struct {
	fn     *ir.MLFunction
	scopes []map[string]ir.Value
}

func (d *decoder) push() { d.scopes = append(d.scopes, make(map[string]ir.Value)) }
func (d *decoder) pop()  { d.scopes = d.scopes[:len(d.scopes)-1] }

// define binds name in the innermost scope. Anonymous values are not bound.
func (d *decoder) define(name string, v ir.Value) error {
	if name == "" {
		return nil
	}
	scope := d.scopes[len(d.scopes)-1]
	if _, exists := scope[name]; exists {
		return errors.Errorf("@%s: %%%s redefined", d.fn.Name(), name)
	}
	scope[name] = v
	return nil
}

// resolve looks up an operand reference.
func (d *decoder) resolve(ref string) (ir.Value, error) {
	if !strings.HasPrefix(ref, "%") {
		return parseConst(ref)
	}
	name := ref[1:]
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if v, ok := d.scopes[i][name]; ok {
			return v, nil
		}
	}
	return nil, errors.WithStack(&UndefinedValueError{Func: d.fn.Name(), Name: name})
}

// nested decodes stmts into blk in a new scope.
func (d *decoder) nested(blk *ir.Block, stmts []stmtDoc) error {
	d.push()
	defer d.pop()
	return d.block(ir.NewBuilder(blk), stmts)
}

func (d *decoder) block(b *ir.Builder, stmts []stmtDoc) error {
	for i, sd := range stmts {
		if err := d.stmt(b, sd); err != nil {
			return errors.Wrapf(err, "statement #%d", i)
		}
	}
	return nil
}

func (d *decoder) stmt(b *ir.Builder, sd stmtDoc) error {
	n := 0
	for _, set := range []bool{sd.Op != "", sd.For != nil, sd.If != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errors.New("statement must have exactly one of op, for or if")
	}
	switch {
	case sd.For != nil:
		if len(sd.Operands) > 0 || len(sd.Results) > 0 || sd.Attrs != nil || sd.Then != nil || sd.Else != nil {
			return errors.New("for statement takes only iv, bounds, step and body")
		}
		step := int64(1)
		if sd.For.Step != nil {
			step = *sd.For.Step
		}
		if step == 0 {
			return errors.Errorf("loop %%%s has zero step", sd.For.IV)
		}
		l := b.CreateFor(sd.For.IV, sd.For.Lower, sd.For.Upper, step)
		d.push()
		defer d.pop()
		if err := d.define(sd.For.IV, l.IV()); err != nil {
			return err
		}
		return d.block(ir.NewBuilder(l.Body()), sd.Body)

	case sd.If != nil:
		if len(sd.Operands) > 0 || len(sd.Results) > 0 || sd.Attrs != nil || sd.Body != nil {
			return errors.New("if statement takes only cond, then and else")
		}
		cond, err := d.resolve(sd.If.Cond)
		if err != nil {
			return err
		}
		s := b.CreateIf(cond)
		if err := d.nested(s.Then(), sd.Then); err != nil {
			return errors.Wrap(err, "then")
		}
		return errors.Wrap(d.nested(s.Else(), sd.Else), "else")
	}

	if sd.Body != nil || sd.Then != nil || sd.Else != nil {
		return errors.Errorf("operation %q cannot have nested blocks", sd.Op)
	}
	operands := make([]ir.Value, len(sd.Operands))
	for i, ref := range sd.Operands {
		v, err := d.resolve(ref)
		if err != nil {
			return err
		}
		operands[i] = v
	}
	attrs, err := decodeAttrs(sd.Attrs)
	if err != nil {
		return errors.Wrapf(err, "operation %q", sd.Op)
	}
	types := make([]ir.Type, len(sd.Results))
	for i, r := range sd.Results {
		types[i] = ir.Type(r.Type)
	}
	op := b.CreateOperation(sd.Op, operands, types, attrs)
	for i, r := range sd.Results {
		op.Result(i).SetName(r.Name)
		if err := d.define(r.Name, op.Result(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeAttrs(n *yaml.Node) (ir.Attrs, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: attrs must be a mapping", n.Line)
	}
	attrs := make(ir.Attrs, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		a, err := decodeAttr(val)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %s", key.Value)
		}
		attrs[key.Value] = a
	}
	return attrs, nil
}
