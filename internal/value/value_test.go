package value_test

import (
	"math"
	"testing"
	"time"

	dferrors "github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		kind value.Kind
	}{
		{"nil", nil, value.KindNull},
		{"int", 3, value.KindNumber},
		{"int64", int64(3), value.KindNumber},
		{"float", 2.5, value.KindNumber},
		{"string", "x", value.KindText},
		{"bool", true, value.KindBool},
		{"time", ts, value.KindTimestamp},
		{"value", value.Missing(), value.KindMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := value.Of(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}

	_, err := value.Of(struct{}{})
	assert.Error(t, err)
}

func TestEqual_KindAware(t *testing.T) {
	assert.True(t, value.Equal(value.Int(1), value.Number(1.0)))
	assert.False(t, value.Equal(value.Int(1), value.Text("1")), "no numeric-string coercion")
	assert.False(t, value.Equal(value.Bool(true), value.Int(1)))
	assert.True(t, value.Equal(value.Null(), value.Null()))
	assert.True(t, value.Equal(value.Missing(), value.Missing()))
	assert.False(t, value.Equal(value.Null(), value.Missing()))
	assert.True(t, value.Equal(value.Number(math.NaN()), value.Number(math.NaN())))
	assert.True(t, value.Equal(value.Number(math.Copysign(0, -1)), value.Number(0)))

	utc := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	other := utc.In(time.FixedZone("plus2", 2*3600))
	assert.True(t, value.Equal(value.Timestamp(utc), value.Timestamp(other)))
}

func TestHash_ConsistentWithEqual(t *testing.T) {
	pairs := [][2]value.Value{
		{value.Int(7), value.Number(7)},
		{value.Number(math.NaN()), value.Number(math.NaN())},
		{value.Number(math.Copysign(0, -1)), value.Number(0)},
		{value.Text("a"), value.Text("a")},
		{value.Null(), value.Null()},
	}
	for _, p := range pairs {
		assert.Equal(t, p[0].Hash(), p[1].Hash(), "%#v vs %#v", p[0], p[1])
	}

	assert.NotEqual(t, value.Int(1).Hash(), value.Text("1").Hash())
	assert.NotEqual(t, value.Null().Hash(), value.Missing().Hash())

	a := value.Tuple{value.Text("ab"), value.Text("c")}
	b := value.Tuple{value.Text("a"), value.Text("bc")}
	assert.NotEqual(t, a.Hash(), b.Hash(), "length prefix separates adjacent texts")
	assert.False(t, a.Equal(b))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, value.Compare(value.Int(1), value.Int(2)))
	assert.Equal(t, 1, value.Compare(value.Text("b"), value.Text("a")))
	assert.Equal(t, 0, value.Compare(value.Null(), value.Missing()))
	assert.Equal(t, -1, value.Compare(value.Null(), value.Int(-100)))
	assert.Equal(t, -1, value.Compare(value.Number(math.NaN()), value.Int(-100)))
	assert.Equal(t, -1, value.Compare(value.Bool(true), value.Int(0)), "booleans rank below numbers")
	assert.Equal(t, -1, value.Compare(value.Int(99), value.Text("0")), "numbers rank below text")
}

func TestString_Canonical(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 5, time.FixedZone("x", 3600))

	assert.Equal(t, "2024-03-01T11:30:00.000000005Z", value.Timestamp(ts).String())
	assert.Equal(t, "3", value.Int(3).String())
	assert.Equal(t, "2.5", value.Number(2.5).String())
	assert.Equal(t, "1000000", value.Number(1e6).String())
	assert.Equal(t, "true", value.Bool(true).String())
	assert.Equal(t, "", value.Null().String())
}

func TestConvert_Strict(t *testing.T) {
	v, err := value.Convert(value.Text(" 42 "), value.KindNumber)
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v)

	v, err = value.Convert(value.Text("2024-01-02"), value.KindTimestamp)
	require.NoError(t, err)
	ts, ok := v.Time()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	v, err = value.Convert(value.Int(0), value.KindBool)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), v)

	v, err = value.Convert(value.Null(), value.KindNumber)
	require.NoError(t, err)
	assert.Equal(t, value.Null(), v)

	_, err = value.Convert(value.Text("abc"), value.KindNumber)
	var failure *value.ConversionFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, value.KindText, failure.From)
	assert.Equal(t, value.KindNumber, failure.To)
	assert.Contains(t, err.Error(), `"abc"`)

	_, err = value.Convert(value.Timestamp(time.Now()), value.KindNumber)
	assert.Error(t, err)
}

func TestConvertWithMode_BestEffort(t *testing.T) {
	v, err := value.ConvertWithMode(value.Text("abc"), value.KindNumber, value.BestEffort)
	require.NoError(t, err)
	assert.Equal(t, value.Null(), v)

	_, err = value.ConvertWithMode(value.Text("abc"), value.KindNumber, value.Strict)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := value.ParseKind("Double")
	require.NoError(t, err)
	assert.Equal(t, value.KindNumber, k)

	_, err = value.ParseKind("decimal")
	assert.ErrorContains(t, err, "decimal")
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
}

func TestParseConvertMode(t *testing.T) {
	for in, want := range map[string]value.ConvertMode{
		"":            value.Strict,
		"STRICT":      value.Strict,
		"best_effort": value.BestEffort,
		"best-effort": value.BestEffort,
	} {
		got, err := value.ParseConvertMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := value.ParseConvertMode("lenient")
	require.Error(t, err)
	assert.ErrorIs(t, err, dferrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "lenient")
	assert.Contains(t, err.Error(), "strict, best_effort")
}

func TestInfer(t *testing.T) {
	tests := []struct {
		in   string
		want value.Value
	}{
		{"", value.Null()},
		{"  ", value.Null()},
		{"12", value.Int(12)},
		{"-1.5", value.Number(-1.5)},
		{"true", value.Bool(true)},
		{"FALSE", value.Bool(false)},
		{"NaN", value.Text("NaN")},
		{"inf", value.Text("inf")},
		{"hello", value.Text("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, value.Infer(tt.in))
		})
	}

	assert.Equal(t, value.KindTimestamp, value.Infer("2024-05-06T07:08:09Z").Kind())
}

func TestIsMissingLike(t *testing.T) {
	assert.True(t, value.IsMissingLike(value.Null()))
	assert.True(t, value.IsMissingLike(value.Missing()))
	assert.True(t, value.IsMissingLike(value.Number(math.NaN())))
	assert.True(t, value.IsMissingLike(value.Text("NULL")))
	assert.True(t, value.IsMissingLike(value.Text("")))
	assert.False(t, value.IsMissingLike(value.Int(0)))
	assert.False(t, value.IsMissingLike(value.Text("n/a")))
}
