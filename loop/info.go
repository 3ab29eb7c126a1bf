package loop

import (
	"bytes"
	"fmt"
	"math"
	"math/bits"

	"github.com/nickng/mlpass/ir"
)

// Info is a data structure to hold loop information:
// the index variable and its constant bounds and step.
type Info struct {
	IndexVar string // Name of the induction variable.

	Lower int64 // initial value.
	Upper int64 // inclusive bound.
	Step  int64 // step value.
}

// InfoOf returns the loop parameters of f.
func InfoOf(f *ir.ForStmt) *Info {
	return &Info{
		IndexVar: f.IV().Name(),
		Lower:    f.LowerBound(),
		Upper:    f.UpperBound(),
		Step:     f.Step(),
	}
}

// TripCount returns the number of iterations, (upper - lower + 1) / step
// with integer division. A negative step counts down from lower to upper,
// giving (lower - upper + 1) / -step; this extends the formula, which only
// defines counting up. The result is never negative, and zero for a zero
// step. A count too large for int64 saturates to math.MaxInt64; use
// Iterations to detect it.
func (i *Info) TripCount() int64 {
	n, err := i.Iterations()
	if err != nil {
		return math.MaxInt64
	}
	return n
}

// Iterations is TripCount computed without wrapping around. It returns
// ErrTripCountOverflow if the count does not fit in an int64.
func (i *Info) Iterations() (int64, error) {
	var from, to, step uint64
	switch {
	case i.Step > 0:
		if i.Upper < i.Lower {
			return 0, nil
		}
		from, to, step = uint64(i.Lower), uint64(i.Upper), uint64(i.Step)
	case i.Step < 0:
		if i.Lower < i.Upper {
			return 0, nil
		}
		// -MinInt64 wraps to MinInt64, which converts to 1<<63.
		from, to, step = uint64(i.Upper), uint64(i.Lower), uint64(-i.Step)
	default:
		return 0, nil
	}
	span, carry := bits.Add64(to-from, 1, 0)
	if carry != 0 {
		return 0, ErrTripCountOverflow
	}
	n := span / step
	if n > math.MaxInt64 {
		return 0, ErrTripCountOverflow
	}
	return int64(n), nil
}

// ValueAt returns the value of the index variable in iteration k.
func (i *Info) ValueAt(k int64) int64 {
	return i.Lower + k*i.Step
}

func (i *Info) String() string {
	name := i.IndexVar
	if name == "" {
		name = "_"
	}
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s = %d; ", name, i.Lower))
	if i.Step >= 0 {
		buf.WriteString(fmt.Sprintf("%s <= %d; ", name, i.Upper))
		buf.WriteString(fmt.Sprintf("%s = %s + %d", name, name, i.Step))
	} else {
		buf.WriteString(fmt.Sprintf("%s >= %d; ", name, i.Upper))
		buf.WriteString(fmt.Sprintf("%s = %s - %d", name, name, -i.Step))
	}
	return buf.String()
}
