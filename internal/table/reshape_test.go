package table_test

import (
	"testing"

	dferrors "github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/paveg/tabular/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivot_Basic(t *testing.T) {
	long := testutil.Table(t, []string{"day", "city", "temp"},
		[]any{"mon", "rome", 20},
		[]any{"mon", "oslo", 5},
		[]any{"tue", "rome", 22},
		[]any{"tue", "rome", 24},
		[]any{"wed", "oslo", "n/a"},
	)

	tests := []struct {
		agg      table.AggFunc
		tueRome  value.Value
		wantRows int
	}{
		{table.AggSum, value.Number(46), 3},
		{table.AggMean, value.Number(23), 3},
		{table.AggMin, value.Number(22), 3},
		{table.AggMax, value.Number(24), 3},
	}

	for _, tt := range tests {
		t.Run(tt.agg.String(), func(t *testing.T) {
			wide, err := long.Pivot("day", "city", "temp", tt.agg)
			require.NoError(t, err)
			require.Equal(t, tt.wantRows, wide.Len())

			assert.Equal(t, []string{"day", "rome", "oslo"}, wide.Columns(), "columns in first-seen order")
			assert.Equal(t, tt.tueRome, wide.Row(1).Get("rome"))
			assert.Equal(t, value.Null(), wide.Row(1).Get("oslo"), "no contributing rows is Null")
			assert.Equal(t, value.Null(), wide.Row(2).Get("oslo"), "no numeric values is Null")
			assert.Equal(t, value.Null(), wide.Row(2).Get("rome"))
		})
	}
}

func TestPivot_FieldNamesAreCanonicalText(t *testing.T) {
	long := testutil.Table(t, []string{"i", "c", "v"},
		[]any{"x", 2024, 1},
		[]any{"x", true, 2},
	)

	wide, err := long.Pivot("i", "c", "v", table.AggSum)
	require.NoError(t, err)
	assert.Equal(t, []string{"i", "2024", "true"}, wide.Columns())
}

func TestPivot_UnknownColumn(t *testing.T) {
	tbl := testutil.Table(t, []string{"i", "c", "v"}, []any{"x", "a", 1})

	_, err := tbl.Pivot("i", "nope", "v", table.AggSum)
	assert.ErrorIs(t, err, dferrors.ErrColumnNotFound)
}

func TestParseAggFunc(t *testing.T) {
	f, err := table.ParseAggFunc("Mean")
	require.NoError(t, err)
	assert.Equal(t, table.AggMean, f)

	_, err = table.ParseAggFunc("median")
	require.Error(t, err)
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "sum, mean, min, max")
}

func TestMelt(t *testing.T) {
	wide := testutil.Table(t, []string{"id", "x", "y"},
		[]any{1, 10, 20},
		[]any{2, 11},
	)

	long, err := wide.Melt([]string{"id"}, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, 4, long.Len(), "rows x value vars")

	assert.Equal(t, []string{"id", "variable", "value"}, long.Columns())
	assert.Equal(t, []any{"x", "y", "x", "y"}, testutil.ColumnValues(long, "variable"))
	assert.Equal(t, []any{10.0, 20.0, 11.0, nil}, testutil.ColumnValues(long, "value"))
	assert.Equal(t, value.Null(), long.Row(3).Get("value"))

	_, err = wide.Melt([]string{"id"}, nil)
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
}

func TestMeltPivot_Inverse(t *testing.T) {
	wide := testutil.Table(t, []string{"id", "x", "y"},
		[]any{"a", 1, 2.5},
		[]any{"b", -3, 4},
		[]any{"c", 0, 7},
	)

	long, err := wide.Melt([]string{"id"}, []string{"x", "y"})
	require.NoError(t, err)

	for _, agg := range []table.AggFunc{table.AggSum, table.AggMean} {
		back, err := long.Pivot("id", table.MeltVariable, table.MeltValue, agg)
		require.NoError(t, err)
		testutil.AssertTableEqual(t, wide, back)
	}
}

func TestPivot_FieldNameClash(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want string
	}{
		{
			name: "number and text with the same text",
			rows: [][]any{{"r", 1, 10}, {"r", "1", 20}},
			want: `field "1"`,
		},
		{
			name: "value named like the index column",
			rows: [][]any{{"r", "a", 10}, {"r", "id", 30}},
			want: "index column",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			long := testutil.Table(t, []string{"id", "col", "v"}, tt.rows...)

			_, err := long.Pivot("id", "col", "v", table.AggSum)
			require.Error(t, err)
			assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
