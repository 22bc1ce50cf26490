package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/stats"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// DropNa removes every row holding a missing-like value: Null, Missing,
// NaN, or the text "", "null" or "nan" in any case.
func (t *Table) DropNa() *Table {
	keep := make([]int, 0, t.Len())
	for i, r := range t.rows {
		ok := true
		for _, v := range r.vals {
			if value.IsMissingLike(v) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	return t.pick(keep)
}

// FillNa replaces Null, Missing and NaN with fill in the given columns,
// or in every column a row carries when none are given. A named column a
// row does not carry is added to it.
func (t *Table) FillNa(fill value.Value, cols ...string) *Table {
	return t.mapRows(func(r *Row) {
		if len(cols) == 0 {
			for i, v := range r.vals {
				if v.IsNA() {
					r.vals[i] = fill
				}
			}
			return
		}
		for _, c := range cols {
			if r.Get(c).IsNA() {
				r.Set(c, fill)
			}
		}
	})
}

// Replace substitutes repl for every value key-equal to old.
func (t *Table) Replace(old, repl value.Value) *Table {
	return t.mapRows(func(r *Row) {
		for i, v := range r.vals {
			if value.Equal(v, old) {
				r.vals[i] = repl
			}
		}
	})
}

// IsNa returns a mask table of the same shape whose cells are Boolean
// true where the source holds Null, Missing or NaN.
func (t *Table) IsNa() *Table { return t.naMask(true) }

// NotNa is the negation of IsNa.
func (t *Table) NotNa() *Table { return t.naMask(false) }

func (t *Table) naMask(want bool) *Table {
	return t.mapRows(func(r *Row) {
		for i, v := range r.vals {
			r.vals[i] = value.Bool(v.IsNA() == want)
		}
	})
}

// Clean drops rows with missing-like values, then whole-row duplicates,
// then fills any remaining Null, Missing or NaN with 0.
func (t *Table) Clean() *Table {
	return t.DropNa().DropDuplicates().FillNa(value.Int(0))
}

// numericColumns checks that every column exists and holds a number and
// returns the numbers of each.
func (t *Table) numericColumns(op string, columns []string) ([][]float64, error) {
	if err := validation.Validate(
		validation.NewNonEmptyValidator(op, "column", columns),
		validation.NewColumnValidator(t, op, columns...),
	); err != nil {
		return nil, err
	}
	out := make([][]float64, len(columns))
	for i, c := range columns {
		xs := stats.Numbers(t.Column(c))
		if len(xs) == 0 {
			return nil, errors.NewPreconditionError(op, fmt.Sprintf("column '%s' has no numeric values", c))
		}
		out[i] = xs
	}
	return out, nil
}

// rescale replaces every numeric cell x of columns with f(i, x), where i
// is the position of the column in columns.
func (t *Table) rescale(columns []string, f func(i int, x float64) float64) *Table {
	return t.mapRows(func(r *Row) {
		for i, c := range columns {
			if x, ok := r.Get(c).Float(); ok && !math.IsNaN(x) {
				r.Set(c, value.Number(f(i, x)))
			}
		}
	})
}

// Standardize replaces the numbers of each column with their z-score
// (x - mean) / std, using the sample standard deviation. A column whose
// deviation is zero or undefined standardizes to 0. Other cells are kept.
func (t *Table) Standardize(columns ...string) (*Table, error) {
	cols, err := t.numericColumns("Standardize", columns)
	if err != nil {
		return nil, err
	}
	means := make([]float64, len(cols))
	stds := make([]float64, len(cols))
	for i, xs := range cols {
		means[i], stds[i] = stat.MeanStdDev(xs, nil)
	}
	return t.rescale(columns, func(i int, x float64) float64 {
		if !(stds[i] > 0) {
			return 0
		}
		return (x - means[i]) / stds[i]
	}), nil
}

// Normalize maps the numbers of each column onto [0, 1] by min-max
// scaling. A constant column normalizes to 0. Other cells are kept.
func (t *Table) Normalize(columns ...string) (*Table, error) {
	cols, err := t.numericColumns("Normalize", columns)
	if err != nil {
		return nil, err
	}
	lows := make([]float64, len(cols))
	spans := make([]float64, len(cols))
	for i, xs := range cols {
		lows[i], spans[i] = floats.Min(xs), floats.Max(xs)-floats.Min(xs)
	}
	return t.rescale(columns, func(i int, x float64) float64 {
		if spans[i] == 0 {
			return 0
		}
		return (x - lows[i]) / spans[i]
	}), nil
}

var interpolationMethods = []string{"linear"}

// Interpolate fills Null, Missing and NaN cells of each column that lie
// between two numbers, interpolating over row position. Cells before the
// first or after the last number are kept, as is a column with fewer than
// two numbers. Only the "linear" method is supported.
func (t *Table) Interpolate(method string, columns ...string) (*Table, error) {
	if !strings.EqualFold(strings.TrimSpace(method), "linear") {
		return nil, errors.NewInvalidArgumentError("Interpolate", "interpolation method", method, interpolationMethods...)
	}
	if err := validation.Validate(
		validation.NewNonEmptyValidator("Interpolate", "column", columns),
		validation.NewColumnValidator(t, "Interpolate", columns...),
	); err != nil {
		return nil, err
	}

	out := t.mapRows(func(*Row) {})
	for _, c := range columns {
		var xs, ys []float64
		for i, r := range out.rows {
			if y, ok := r.Get(c).Float(); ok && !math.IsNaN(y) {
				xs = append(xs, float64(i))
				ys = append(ys, y)
			}
		}
		var pl interp.PiecewiseLinear
		if len(xs) < 2 || pl.Fit(xs, ys) != nil {
			continue
		}
		first, last := int(xs[0]), int(xs[len(xs)-1])
		for i := first + 1; i < last; i++ {
			r := out.rows[i]
			if r.Get(c).IsNA() {
				r.Set(c, value.Number(pl.Predict(float64(i))))
			}
		}
	}
	return out, nil
}
