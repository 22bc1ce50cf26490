// Package testutil provides shared fixtures and assertions for table tests.
//
// It consolidates the patterns most table tests need:
// - Building tables from compact column/row literals
// - A standard employee table with optional nulls
// - Large random tables for the parallel rank path
// - Row-level table assertions with readable failure output
package testutil

import (
	"math/rand/v2"
	"testing"

	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test tables.
	defaultRowCount = 4
)

// Table builds a table from column names and row literals. Each row lists
// values in column order; a nil entry is Null and a row shorter than cols
// leaves the trailing columns absent.
//
// Example usage:
//
//	tbl := testutil.Table(t, []string{"g", "v"},
//		[]any{"a", 1},
//		[]any{"b", nil},
//	)
func Table(tb testing.TB, cols []string, rows ...[]any) *table.Table {
	tb.Helper()

	built := make([]*table.Row, len(rows))
	for i, vals := range rows {
		require.LessOrEqual(tb, len(vals), len(cols), "row %d has more values than columns", i)
		r := &table.Row{}
		for j, x := range vals {
			v, err := value.Of(x)
			require.NoError(tb, err, "row %d column %s", i, cols[j])
			r.Set(cols[j], v)
		}
		built[i] = r
	}
	return table.New(built...)
}

// TestTableOption configures test table creation.
type TestTableOption func(*testTableConfig)

type testTableConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls replaces every third salary with Null.
func WithNulls() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.withActive = true
	}
}

// CreateTestTable creates a standard employee table.
//
// Default table includes:
// - name (text): ["Alice", "Bob", "Charlie", "David"]
// - age (number): [25, 30, 35, 28]
// - department (text): ["Engineering", "Sales", "Engineering", "Marketing"]
// - salary (number): [100000, 80000, 120000, 75000]
func CreateTestTable(opts ...TestTableOption) *table.Table {
	cfg := &testTableConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	names := []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"}
	ages := []int64{25, 30, 35, 28, 32, 45, 29, 38}
	depts := []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"}
	salaries := []int64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000}
	active := []bool{true, true, false, true, true, false, true, false}

	rows := make([]*table.Row, cfg.rowCount)
	for i := range cfg.rowCount {
		k := i % len(names)
		r := &table.Row{}
		r.Set("name", value.Text(names[k]))
		r.Set("age", value.Int(ages[k]))
		r.Set("department", value.Text(depts[k]))
		if cfg.includeNulls && i%3 == 2 {
			r.Set("salary", value.Null())
		} else {
			r.Set("salary", value.Int(salaries[k]))
		}
		if cfg.withActive {
			r.Set("active", value.Bool(active[k]))
		}
		rows[i] = r
	}
	return table.New(rows...)
}

// CreateRandomTable creates n rows with a unique integer "id", a "score"
// drawn from rng over a small range (so it has ties) and a "bucket" text.
func CreateRandomTable(rng *rand.Rand, n int) *table.Table {
	ids := rng.Perm(n)
	rows := make([]*table.Row, n)
	for i := range n {
		r := &table.Row{}
		r.Set("id", value.Int(int64(ids[i])))
		r.Set("score", value.Int(int64(rng.IntN(50))))
		r.Set("bucket", value.Text(string(rune('a'+rng.IntN(5)))))
		rows[i] = r
	}
	return table.New(rows...)
}

// AssertTableEqual compares two tables row by row under key equality.
func AssertTableEqual(t *testing.T, expected, actual *table.Table) {
	t.Helper()

	require.NotNil(t, expected, "expected table should not be nil")
	require.NotNil(t, actual, "actual table should not be nil")
	require.Equal(t, expected.Len(), actual.Len(), "table lengths should match")

	for i := range expected.Len() {
		e, a := expected.Row(i), actual.Row(i)
		assert.True(t, e.Equal(a), "row %d: expected %s, got %s", i, e, a)
	}
}

// AssertTableHasColumns verifies the union of columns, in order.
func AssertTableHasColumns(t *testing.T, tbl *table.Table, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")
	assert.Equal(t, expectedColumns, tbl.Columns())
}

// AssertTableNotEmpty verifies that a table has rows.
func AssertTableNotEmpty(t *testing.T, tbl *table.Table) {
	t.Helper()

	require.NotNil(t, tbl, "table should not be nil")
	assert.Positive(t, tbl.Len(), "table should not be empty")
}

// ColumnValues returns the Any payloads of column for every row.
func ColumnValues(tbl *table.Table, column string) []any {
	vals := tbl.Column(column)
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Any()
	}
	return out
}
