package table_test

import (
	"testing"

	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDropDuplicates_ByKeys(t *testing.T) {
	tbl := testutil.Table(t, []string{"k", "seq"},
		[]any{"a", 0}, []any{"b", 1}, []any{"a", 2}, []any{nil, 3}, []any{nil, 4},
	)

	out := tbl.DropDuplicates("k")
	assert.Equal(t, []any{0.0, 1.0, 3.0}, testutil.ColumnValues(out, "seq"), "first occurrence wins")
	testutil.AssertTableEqual(t, out, out.DropDuplicates("k"))
	assert.Equal(t, 5, tbl.Len(), "input untouched")
}

func TestDropDuplicates_WholeRow(t *testing.T) {
	tbl := table.New(
		table.MustRow("a", 1, "b", "x"),
		table.MustRow("b", "x", "a", 1),
		table.MustRow("a", 1),
		table.MustRow("a", 1, "b", "y"),
	)

	out := tbl.DropDuplicates()
	assert.Equal(t, 3, out.Len(), "field order does not matter")
	assert.Equal(t, []bool{false, true, false, false}, tbl.Duplicated())
	assert.Equal(t, []bool{false, true, true, true}, tbl.Duplicated("a"))
}
