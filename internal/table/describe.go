package table

import (
	"github.com/paveg/tabular/internal/stats"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
)

// Describe summarizes every column of the schema that holds a number.
// Each output row has the fields column, count, mean, std, min, 25%, 50%,
// 75% and max. It is a precondition error on an empty table.
func (t *Table) Describe() (*Table, error) {
	if err := validation.ValidateNotEmpty(t, "Describe"); err != nil {
		return nil, err
	}
	schema, _ := t.Schema()

	var rows []*Row
	for _, col := range schema {
		vals := t.Column(col)
		if !stats.HasNumber(vals) {
			continue
		}
		s := stats.Summarize(vals)
		q1, _ := stats.Quantile(vals, 0.25)
		q3, _ := stats.Quantile(vals, 0.75)
		r := &Row{}
		r.Set("column", value.Text(col))
		r.Set("count", value.Int(int64(s.Count)))
		r.Set("mean", value.Number(s.Mean))
		r.Set("std", value.Number(s.Std))
		r.Set("min", value.Number(s.Min))
		r.Set("25%", value.Number(q1))
		r.Set("50%", value.Number(stats.Median(vals)))
		r.Set("75%", value.Number(q3))
		r.Set("max", value.Number(s.Max))
		rows = append(rows, r)
	}
	return owned(rows), nil
}

// Frequency counts the distinct non-null values of column. The result has
// fields value and count, in first-seen order.
func (t *Table) Frequency(column string) (*Table, error) {
	if err := validation.ValidateColumns(t, "Frequency", column); err != nil {
		return nil, err
	}
	freq := stats.Frequency(t.Column(column))
	rows := make([]*Row, len(freq))
	for i, f := range freq {
		r := &Row{}
		r.Set("value", f.Value)
		r.Set("count", value.Int(int64(f.Count)))
		rows[i] = r
	}
	return owned(rows), nil
}

// Mode returns the most frequent non-null value of column; ties go to the
// value seen first.
func (t *Table) Mode(column string) (value.Value, error) {
	if err := validation.ValidateColumns(t, "Mode", column); err != nil {
		return value.Missing(), err
	}
	return stats.Mode(t.Column(column))
}

// Quantile returns the q-th quantile of the numbers in column.
func (t *Table) Quantile(column string, q float64) (float64, error) {
	if err := validation.ValidateColumns(t, "Quantile", column); err != nil {
		return 0, err
	}
	return stats.Quantile(t.Column(column), q)
}

// Covariance returns the sample covariance of two columns. The columns
// must hold numbers at the same rows.
func (t *Table) Covariance(x, y string) (float64, error) {
	if err := validation.ValidateColumns(t, "Covariance", x, y); err != nil {
		return 0, err
	}
	return stats.Covariance(t.Column(x), t.Column(y))
}

// Correlation returns the Pearson correlation of two columns under the
// same precondition as Covariance.
func (t *Table) Correlation(x, y string) (float64, error) {
	if err := validation.ValidateColumns(t, "Correlation", x, y); err != nil {
		return 0, err
	}
	return stats.Correlation(t.Column(x), t.Column(y))
}

// Outliers returns the numbers of column outside the 1.5 IQR fences, in
// row order.
func (t *Table) Outliers(column string) ([]float64, error) {
	if err := validation.ValidateColumns(t, "Outliers", column); err != nil {
		return nil, err
	}
	return stats.Outliers(t.Column(column)), nil
}

// CorrelationMatrix returns the pairwise Pearson correlation of every
// numeric column of the schema: one row per column, holding its name
// under "column" and one field per numeric column. It is a precondition
// error on an empty table or when two columns do not pair up.
func (t *Table) CorrelationMatrix() (*Table, error) {
	if err := validation.ValidateNotEmpty(t, "CorrelationMatrix"); err != nil {
		return nil, err
	}
	schema, _ := t.Schema()

	var numeric []string
	cols := make(map[string][]value.Value)
	for _, c := range schema {
		vals := t.Column(c)
		if stats.HasNumber(vals) {
			numeric = append(numeric, c)
			cols[c] = vals
		}
	}

	rows := make([]*Row, len(numeric))
	for i, a := range numeric {
		r := &Row{}
		r.Set("column", value.Text(a))
		for _, b := range numeric {
			c, err := stats.Correlation(cols[a], cols[b])
			if err != nil {
				return nil, err
			}
			r.Set(b, value.Number(c))
		}
		rows[i] = r
	}
	return owned(rows), nil
}
