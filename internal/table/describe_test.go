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

func TestDescribe(t *testing.T) {
	out, err := testutil.CreateTestTable().Describe()
	require.NoError(t, err)

	assert.Equal(t, []any{"age", "salary"}, testutil.ColumnValues(out, "column"))
	age := out.Row(0)
	assert.Equal(t, value.Int(4), age.Get("count"))
	assert.Equal(t, value.Number(29.5), age.Get("mean"))
	assert.Equal(t, value.Number(25), age.Get("min"))
	assert.Equal(t, value.Number(27.25), age.Get("25%"))
	assert.Equal(t, value.Number(29), age.Get("50%"))
	assert.Equal(t, value.Number(31.25), age.Get("75%"))
	assert.Equal(t, value.Number(35), age.Get("max"))

	_, err = table.New().Describe()
	assert.ErrorIs(t, err, dferrors.ErrPrecondition)
}

func TestFrequencyAndMode(t *testing.T) {
	tbl := testutil.CreateTestTable()

	freq, err := tbl.Frequency("department")
	require.NoError(t, err)
	assert.Equal(t, []any{"Engineering", "Sales", "Marketing"}, testutil.ColumnValues(freq, "value"))
	assert.Equal(t, []any{2.0, 1.0, 1.0}, testutil.ColumnValues(freq, "count"))

	mode, err := tbl.Mode("department")
	require.NoError(t, err)
	assert.Equal(t, value.Text("Engineering"), mode)

	_, err = tbl.Mode("nope")
	assert.ErrorIs(t, err, dferrors.ErrColumnNotFound)
}

func TestQuantileCovarianceCorrelation(t *testing.T) {
	tbl := testutil.Table(t, []string{"x", "y"}, []any{1, 2}, []any{2, 4}, []any{3, 6})

	q, err := tbl.Quantile("x", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.0, q)

	cov, err := tbl.Covariance("x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cov, 1e-12)

	corr, err := tbl.Correlation("x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr, 1e-12)

	_, err = tbl.Quantile("x", 1.5)
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)

	gap := testutil.Table(t, []string{"x", "y"}, []any{1, 2}, []any{2})
	_, err = gap.Covariance("x", "y")
	assert.ErrorIs(t, err, dferrors.ErrPrecondition)
}

func TestOutliers(t *testing.T) {
	tbl := testutil.Table(t, []string{"v"}, []any{1}, []any{2}, []any{100}, []any{3}, []any{4})

	out, err := tbl.Outliers("v")
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, out)
}

func TestCorrelationMatrix(t *testing.T) {
	tbl := testutil.Table(t, []string{"name", "x", "y", "z"},
		[]any{"a", 1, 2, 3},
		[]any{"b", 2, 4, 2},
		[]any{"c", 3, 6, 1},
	)

	out, err := tbl.CorrelationMatrix()
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"column", "x", "y", "z"}, out.Columns())
	assert.Equal(t, []any{"x", "y", "z"}, testutil.ColumnValues(out, "column"))

	want := [][]float64{{1, 1, -1}, {1, 1, -1}, {-1, -1, 1}}
	for i, row := range want {
		for j, c := range []string{"x", "y", "z"} {
			got, ok := out.Row(i).Get(c).Float()
			require.True(t, ok)
			assert.InDelta(t, row[j], got, 1e-12, "%s/%s", out.Row(i).Get("column"), c)
		}
	}

	_, err = table.New().CorrelationMatrix()
	assert.ErrorIs(t, err, dferrors.ErrPrecondition)

	gap := testutil.Table(t, []string{"x", "y"}, []any{1, 1}, []any{2, nil}, []any{3, 3})
	_, err = gap.CorrelationMatrix()
	assert.ErrorIs(t, err, dferrors.ErrPrecondition)
}
