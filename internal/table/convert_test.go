package table_test

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	dferrors "github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/paveg/tabular/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAstype_Strict(t *testing.T) {
	tbl := testutil.Table(t, []string{"v", "flag"},
		[]any{"1.5", 1},
		[]any{"x", 0},
		[]any{nil, 1},
		[]any{"y", 2},
	)

	_, err := tbl.Astype(map[string]value.Kind{"v": value.KindNumber}, value.Strict)
	require.Error(t, err)
	assert.ErrorIs(t, err, dferrors.ErrConversion)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2, "every failing cell is reported")
	assert.Contains(t, err.Error(), `"x"`)

	out, err := tbl.Astype(map[string]value.Kind{"flag": value.KindBool}, value.Strict)
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, true, true}, testutil.ColumnValues(out, "flag"))
}

func TestAstype_BestEffort(t *testing.T) {
	tbl := testutil.Table(t, []string{"v"}, []any{"1.5"}, []any{"x"}, []any{nil})

	out, err := tbl.Astype(map[string]value.Kind{"v": value.KindNumber}, value.BestEffort)
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, nil, nil}, testutil.ColumnValues(out, "v"))
	assert.Equal(t, value.Null(), out.Row(1).Get("v"))
}

func TestAstype_InvalidArguments(t *testing.T) {
	tbl := testutil.Table(t, []string{"v"}, []any{1})

	_, err := tbl.Astype(map[string]value.Kind{"nope": value.KindText}, value.Strict)
	assert.ErrorIs(t, err, dferrors.ErrColumnNotFound)

	_, err = tbl.Astype(map[string]value.Kind{"v": value.KindNull}, value.Strict)
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
}
