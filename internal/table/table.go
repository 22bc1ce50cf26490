// Package table implements the in-memory relational table engine.
//
// A Table is an ordered sequence of Rows that share a conceptual, but not
// enforced, schema: rows may carry different column sets and a column a row
// does not carry reads as value.Missing. Every operation returns a new Table
// that shares no row storage with its inputs, so callers may discard or
// reuse the inputs freely. Operations that do not sort preserve input order.
//
// The package performs no I/O and no logging. Failures are returned as
// *errors.TableError values.
package table

import (
	"fmt"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/value"
	"golang.org/x/exp/slices"
)

// Table is an owned, ordered sequence of rows.
type Table struct {
	rows []*Row
}

// New returns a Table holding copies of rows.
func New(rows ...*Row) *Table {
	out := make([]*Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return &Table{rows: out}
}

// owned wraps rows the caller has just allocated.
func owned(rows []*Row) *Table {
	if rows == nil {
		rows = []*Row{}
	}
	return &Table{rows: rows}
}

// FromMaps builds a Table from plain Go maps. Columns named in order come
// first, in that order; any remaining keys of a map follow sorted by name.
func FromMaps(order []string, maps []map[string]any) (*Table, error) {
	rows := make([]*Row, 0, len(maps))
	for i, m := range maps {
		r := &Row{}
		for _, c := range order {
			if x, ok := m[c]; ok {
				v, err := value.Of(x)
				if err != nil {
					return nil, errors.NewInvalidInputError("FromMaps", fmt.Sprintf("row %d: %v", i, err))
				}
				r.Set(c, v)
			}
		}
		rest := make([]string, 0, len(m))
		for k := range m {
			if !r.Has(k) {
				rest = append(rest, k)
			}
		}
		slices.Sort(rest)
		for _, k := range rest {
			v, err := value.Of(m[k])
			if err != nil {
				return nil, errors.NewInvalidInputError("FromMaps", fmt.Sprintf("row %d: %v", i, err))
			}
			r.Set(k, v)
		}
		rows = append(rows, r)
	}
	return owned(rows), nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of the i-th row. It panics if i is out of range.
func (t *Table) Row(i int) *Row { return t.rows[i].Clone() }

// Rows returns copies of every row.
func (t *Table) Rows() []*Row {
	out := make([]*Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Clone()
	}
	return out
}

// Each calls fn with a copy of every row in order.
func (t *Table) Each(fn func(i int, r *Row)) {
	for i, r := range t.rows {
		fn(i, r.Clone())
	}
}

// Columns returns the union of column names over every row, in first-seen
// order.
func (t *Table) Columns() []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range t.rows {
		for _, n := range r.names {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				cols = append(cols, n)
			}
		}
	}
	return cols
}

// Schema returns the column names of the first row. It is a precondition
// error on an empty Table.
func (t *Table) Schema() ([]string, error) {
	if len(t.rows) == 0 {
		return nil, errors.NewEmptyTableError("Schema")
	}
	return t.rows[0].Columns(), nil
}

// HasColumn reports whether any row carries name.
func (t *Table) HasColumn(name string) bool {
	for _, r := range t.rows {
		if r.Has(name) {
			return true
		}
	}
	return false
}

// Column returns the value of name for every row; rows without it give
// Missing.
func (t *Table) Column(name string) []value.Value {
	out := make([]value.Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Get(name)
	}
	return out
}

// Head returns the first n rows (all of them when n exceeds Len).
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Slice returns rows [start, end), clamped to the table bounds.
func (t *Table) Slice(start, end int) *Table {
	start = max(0, min(start, len(t.rows)))
	end = max(start, min(end, len(t.rows)))
	return New(t.rows[start:end]...)
}

// Select keeps only the named columns, in the given order. Columns a row
// does not carry are skipped for that row.
func (t *Table) Select(cols ...string) *Table {
	rows := make([]*Row, len(t.rows))
	for i, r := range t.rows {
		out := &Row{}
		for _, c := range cols {
			if v, ok := r.Lookup(c); ok {
				out.Set(c, v)
			}
		}
		rows[i] = out
	}
	return owned(rows)
}

// Drop removes the named columns from every row.
func (t *Table) Drop(cols ...string) *Table {
	return t.mapRows(func(r *Row) {
		for _, c := range cols {
			r.Delete(c)
		}
	})
}

// Concat appends the rows of others after the rows of t.
func (t *Table) Concat(others ...*Table) *Table {
	n := len(t.rows)
	for _, o := range others {
		n += len(o.rows)
	}
	rows := make([]*Row, 0, n)
	for _, src := range append([]*Table{t}, others...) {
		for _, r := range src.rows {
			rows = append(rows, r.Clone())
		}
	}
	return owned(rows)
}

// ConcatHorizontal merges rows positionally. The result has max(Len)
// rows; fields of other win on name clashes.
func (t *Table) ConcatHorizontal(other *Table) *Table {
	n := max(len(t.rows), len(other.rows))
	rows := make([]*Row, n)
	for i := range n {
		out := &Row{}
		if i < len(t.rows) {
			out = t.rows[i].Clone()
		}
		if i < len(other.rows) {
			out.merge(other.rows[i])
		}
		rows[i] = out
	}
	return owned(rows)
}

// Equal reports whether both tables hold Equal rows in the same order.
func (t *Table) Equal(o *Table) bool {
	if len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !t.rows[i].Equal(o.rows[i]) {
			return false
		}
	}
	return true
}

// Maps returns every row as a plain Go map.
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Map()
	}
	return out
}

// mapRows clones every row, applies fn to the clone and returns the result.
func (t *Table) mapRows(fn func(r *Row)) *Table {
	rows := make([]*Row, len(t.rows))
	for i, r := range t.rows {
		c := r.Clone()
		fn(c)
		rows[i] = c
	}
	return owned(rows)
}

// pick clones the rows at the given positions.
func (t *Table) pick(idx []int) *Table {
	rows := make([]*Row, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j].Clone()
	}
	return owned(rows)
}
