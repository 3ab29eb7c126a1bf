package irfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nickng/mlpass/ir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Function kinds.
const (
	KindML  = "ml"
	KindExt = "ext"
	KindCFG = "cfg"
)

type moduleDoc struct {
	Functions []funcDoc `yaml:"functions"`
}

type funcDoc struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind,omitempty"`
	Args   []argDoc  `yaml:"args,omitempty"`
	Params []string  `yaml:"params,omitempty"`
	Body   []stmtDoc `yaml:"body,omitempty"`
}

type argDoc struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`
}

type stmtDoc struct {
	Op       string     `yaml:"op,omitempty"`
	Operands []string   `yaml:"operands,omitempty,flow"`
	Results  []argDoc   `yaml:"results,omitempty"`
	Attrs    *yaml.Node `yaml:"attrs,omitempty"`

	For *forDoc `yaml:"for,omitempty"`
	If  *ifDoc  `yaml:"if,omitempty"`

	// Body of a for statement.
	Body []stmtDoc `yaml:"body,omitempty"`
	// Branches of an if statement.
	Then []stmtDoc `yaml:"then,omitempty"`
	Else []stmtDoc `yaml:"else,omitempty"`
}

type forDoc struct {
	IV    string `yaml:"iv,omitempty"`
	Lower int64  `yaml:"lower"`
	Upper int64  `yaml:"upper"`
	Step  *int64 `yaml:"step,omitempty"`
}

type ifDoc struct {
	Cond string `yaml:"cond"`
}

// UndefinedValueError is the error when an operand refers to a name that is
// not defined at its use.
type UndefinedValueError struct {
	Func string
	Name string
}

func (e *UndefinedValueError) Error() string {
	return fmt.Sprintf("@%s: undefined value %%%s", e.Func, e.Name)
}

// parseConst parses the constant operand forms "7" and "7:i32".
func parseConst(ref string) (*ir.Const, error) {
	lit, typ := ref, ir.Index
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		lit, typ = ref[:i], ir.Type(ref[i+1:])
		if typ == "" {
			return nil, errors.Errorf("constant %q has empty type", ref)
		}
	}
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		return nil, errors.Errorf("bad operand %q: want %%name or integer constant", ref)
	}
	return ir.NewConst(v, typ), nil
}

// formatConst is the inverse of parseConst.
func formatConst(c *ir.Const) string {
	if c.Type() == ir.Index {
		return c.String()
	}
	return c.String() + ":" + c.Type().String()
}

// decodeAttr converts a YAML scalar or sequence to an attribute.
func decodeAttr(n *yaml.Node) (ir.Attribute, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int":
			var v int64
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return ir.IntAttr(v), nil
		case "!!float":
			var v float64
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return ir.FloatAttr(v), nil
		case "!!bool":
			var v bool
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return ir.BoolAttr(v), nil
		case "!!str":
			return ir.StringAttr(n.Value), nil
		}
		return nil, errors.Errorf("line %d: unsupported attribute value %s", n.Line, n.ShortTag())
	case yaml.SequenceNode:
		arr := make(ir.ArrayAttr, 0, len(n.Content))
		for _, elem := range n.Content {
			a, err := decodeAttr(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, a)
		}
		return arr, nil
	}
	return nil, errors.Errorf("line %d: attribute must be a scalar or a list", n.Line)
}

// encodeAttr converts an attribute to a YAML node.
func encodeAttr(a ir.Attribute) *yaml.Node {
	switch a := a.(type) {
	case ir.IntAttr:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: a.String()}
	case ir.FloatAttr:
		f := float64(a)
		var s string
		switch {
		case math.IsNaN(f):
			s = ".nan"
		case math.IsInf(f, 1):
			s = ".inf"
		case math.IsInf(f, -1):
			s = "-.inf"
		default:
			s = a.String()
			if !strings.ContainsAny(s, ".e") {
				s += ".0"
			}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
	case ir.BoolAttr:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: a.String()}
	case ir.StringAttr:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(a)}
	case ir.ArrayAttr:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, elem := range a {
			n.Content = append(n.Content, encodeAttr(elem))
		}
		return n
	}
	panic(fmt.Sprintf("irfile: unknown attribute type %T", a))
}
