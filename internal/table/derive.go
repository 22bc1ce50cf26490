package table

import (
	"math"
	"math/rand/v2"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/stats"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
)

// Bin adds a "{column}_bin" field holding the equal-width bin index
// (0 .. bins-1) of each numeric cell; the maximum falls into the last bin
// and non-numeric cells get Null. When every number is the same they all
// land in bin 0.
func (t *Table) Bin(column string, bins int) (*Table, error) {
	if err := validation.Validate(
		validation.NewPositiveValidator("Bin", "bins", bins),
		validation.NewColumnValidator(t, "Bin", column),
	); err != nil {
		return nil, err
	}
	vals := t.Column(column)
	if !stats.HasNumber(vals) {
		return nil, errors.NewPreconditionError("Bin", "column '"+column+"' has no numeric values")
	}
	lo, hi := stats.Min(vals), stats.Max(vals)
	width := (hi - lo) / float64(bins)

	name := column + "_bin"
	return t.mapRows(func(r *Row) {
		f, ok := r.Get(column).Float()
		if !ok || math.IsNaN(f) {
			r.Set(name, value.Null())
			return
		}
		idx := 0
		if width > 0 {
			idx = min(int((f-lo)/width), bins-1)
		}
		r.Set(name, value.Int(int64(idx)))
	}), nil
}

// Dummies adds a "{column}_{value}" indicator field set to 1 for every
// non-null cell of each named column.
func (t *Table) Dummies(columns ...string) (*Table, error) {
	if err := validation.ValidateColumns(t, "Dummies", columns...); err != nil {
		return nil, err
	}
	return t.mapRows(func(r *Row) {
		for _, c := range columns {
			if v := r.Get(c); !v.IsNull() {
				r.Set(c+"_"+v.String(), value.Int(1))
			}
		}
	}), nil
}

// Rolling adds a "{column}_rolling_{agg}" field reducing the numbers of
// the current row and the window-1 rows before it. Windows without a
// number give Null.
func (t *Table) Rolling(column string, window int, agg AggFunc) (*Table, error) {
	if err := validation.Validate(
		validation.NewPositiveValidator("Rolling", "window", window),
		validation.NewColumnValidator(t, "Rolling", column),
	); err != nil {
		return nil, err
	}
	vals := t.Column(column)
	name := column + "_rolling_" + agg.String()
	out := t.mapRows(func(*Row) {})
	for i, r := range out.rows {
		start := max(0, i-window+1)
		r.Set(name, agg.apply(vals[start:i+1]))
	}
	return out, nil
}

// Sample draws n rows without replacement using rng, in draw order. It
// is a precondition error when n exceeds Len.
func (t *Table) Sample(n int, rng *rand.Rand) (*Table, error) {
	if n < 0 {
		return nil, errors.NewInvalidArgumentError("Sample", "sample size", n, ">= 0")
	}
	if n > t.Len() {
		return nil, errors.NewPreconditionError("Sample",
			"sample size exceeds table size")
	}
	perm := rng.Perm(t.Len())
	return t.pick(perm[:n]), nil
}

// Transform replaces the value of column with fn(value) in every row
// that carries it.
func (t *Table) Transform(column string, fn func(value.Value) value.Value) *Table {
	return t.mapRows(func(r *Row) {
		if v, ok := r.Lookup(column); ok {
			r.Set(column, fn(v))
		}
	})
}

// Apply reduces the whole column with fn and returns a one-row table
// holding the result under column. Rows without the column contribute
// Missing.
func (t *Table) Apply(column string, fn func([]value.Value) value.Value) *Table {
	r := &Row{}
	r.Set(column, fn(t.Column(column)))
	return owned([]*Row{r})
}
