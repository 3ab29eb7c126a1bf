package ir

import (
	"bytes"
	"sort"
	"strconv"
)

// Attribute is a compile-time constant attached to an operation by name.
// The set of attributes is closed: IntAttr, FloatAttr, StringAttr, BoolAttr
// and ArrayAttr.
type Attribute interface {
	String() string
	isAttr()
}

type (
	IntAttr    int64
	FloatAttr  float64
	StringAttr string
	BoolAttr   bool
	ArrayAttr  []Attribute
)

func (a IntAttr) String() string    { return strconv.FormatInt(int64(a), 10) }
func (a FloatAttr) String() string  { return strconv.FormatFloat(float64(a), 'g', -1, 64) }
func (a StringAttr) String() string { return strconv.Quote(string(a)) }
func (a BoolAttr) String() string   { return strconv.FormatBool(bool(a)) }

func (a ArrayAttr) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(elem.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

func (IntAttr) isAttr()    {}
func (FloatAttr) isAttr()  {}
func (StringAttr) isAttr() {}
func (BoolAttr) isAttr()   {}
func (ArrayAttr) isAttr()  {}

// Attrs maps attribute names to values.
type Attrs map[string]Attribute

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of a. Attribute values are immutable so they
// are shared.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	c := make(Attrs, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

func (a Attrs) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k)
		buf.WriteString(" = ")
		buf.WriteString(a[k].String())
	}
	buf.WriteByte('}')
	return buf.String()
}
