package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/stats"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
)

// AggFunc is a pivot cell reduction.
type AggFunc int

const (
	AggSum AggFunc = iota
	AggMean
	AggMin
	AggMax
)

var aggFuncNames = []string{"sum", "mean", "min", "max"}

// String returns the lower-case function name.
func (f AggFunc) String() string {
	if int(f) >= 0 && int(f) < len(aggFuncNames) {
		return aggFuncNames[f]
	}
	return "unknown"
}

// ParseAggFunc parses sum, mean, min or max (case-insensitive).
func ParseAggFunc(s string) (AggFunc, error) {
	for i, name := range aggFuncNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return AggFunc(i), nil
		}
	}
	return AggSum, errors.NewInvalidArgumentError("Pivot", "aggregation function", s, aggFuncNames...)
}

// apply reduces vals. A cell with no Numbers is Null.
func (f AggFunc) apply(vals []value.Value) value.Value {
	if !stats.HasNumber(vals) {
		return value.Null()
	}
	var x float64
	switch f {
	case AggMean:
		x = stats.Mean(vals)
	case AggMin:
		x = stats.Min(vals)
	case AggMax:
		x = stats.Max(vals)
	default:
		x = stats.Sum(vals)
	}
	if math.IsNaN(x) {
		return value.Null()
	}
	return value.Number(x)
}

// Melt column names.
const (
	MeltVariable = "variable"
	MeltValue    = "value"
)

// Pivot reshapes t from long to wide. The result has one row per distinct
// value of index (first-seen order), carrying the index column and one
// field per distinct value of columns anywhere in t (first-seen order,
// named by the value's canonical text). Each field holds agg over the
// values of the rows sharing that index and column value; cells without
// numeric input are Null. Two spread values with the same canonical text,
// or one named like index, are an invalid-argument error.
func (t *Table) Pivot(index, columns, values string, agg AggFunc) (*Table, error) {
	if err := validation.ValidateColumns(t, "Pivot", index, columns, values); err != nil {
		return nil, err
	}

	spread := indexBy(t, []string{columns})
	names := make([]string, spread.len())
	taken := map[string]string{index: "the index column"}
	for id, k := range spread.keys {
		name := k[0].String()
		if owner, dup := taken[name]; dup {
			return nil, errors.NewInvalidInputError("Pivot", fmt.Sprintf(
				"value %#v of column %q names field %q, which clashes with %s", k[0], columns, name, owner))
		}
		taken[name] = fmt.Sprintf("value %#v", k[0])
		names[id] = name
	}

	byIndex := indexBy(t, []string{index})
	rows := make([]*Row, byIndex.len())
	for id, members := range byIndex.members {
		cells := make([][]value.Value, spread.len())
		for _, ri := range members {
			r := t.rows[ri]
			col, _ := spread.find(Key(r, []string{columns}))
			cells[col] = append(cells[col], r.Get(values))
		}

		out := &Row{}
		out.Set(index, byIndex.keys[id][0])
		for col, name := range names {
			out.Set(name, agg.apply(cells[col]))
		}
		rows[id] = out
	}
	return owned(rows), nil
}

// Melt reshapes t from wide to long. Every input row yields one row per
// name in valueVars, holding the idVars fields, a "variable" field with
// that name and a "value" field with the row's value under it (Null when
// the row lacks that column).
func (t *Table) Melt(idVars, valueVars []string) (*Table, error) {
	if err := validation.Validate(
		validation.NewNonEmptyValidator("Melt", "value column", valueVars),
		validation.NewColumnValidator(t, "Melt", valueVars...),
	); err != nil {
		return nil, err
	}

	rows := make([]*Row, 0, t.Len()*len(valueVars))
	for _, r := range t.rows {
		for _, v := range valueVars {
			out := &Row{}
			for _, id := range idVars {
				if x, ok := r.Lookup(id); ok {
					out.Set(id, x)
				}
			}
			out.Set(MeltVariable, value.Text(v))
			x, ok := r.Lookup(v)
			if !ok {
				x = value.Null()
			}
			out.Set(MeltValue, x)
			rows = append(rows, out)
		}
	}
	return owned(rows), nil
}
