package io_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/paveg/tabular/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader(t *testing.T) {
	t.Run("infers one kind per cell", func(t *testing.T) {
		csvData := "name,age,active,joined\n" +
			"Alice,25,true,2024-01-02T03:04:05Z\n" +
			"Bob,,FALSE,n/a\n"

		tbl, err := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions()).Read()
		require.NoError(t, err)
		require.Equal(t, 2, tbl.Len())
		assert.Equal(t, []string{"name", "age", "active", "joined"}, tbl.Columns())

		alice := tbl.Row(0)
		assert.Equal(t, value.Text("Alice"), alice.Get("name"))
		assert.Equal(t, value.Int(25), alice.Get("age"))
		assert.Equal(t, value.Bool(true), alice.Get("active"))
		assert.Equal(t, value.Timestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)), alice.Get("joined"))

		bob := tbl.Row(1)
		assert.Equal(t, value.Null(), bob.Get("age"), "empty cell is Null")
		assert.Equal(t, value.Bool(false), bob.Get("active"))
		assert.Equal(t, value.Text("n/a"), bob.Get("joined"))
	})

	t.Run("without headers", func(t *testing.T) {
		opts := io.DefaultCSVOptions()
		opts.Header = false

		tbl, err := io.NewCSVReader(strings.NewReader("a,1\nb,2\n"), opts).Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"column_0", "column_1"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("short records pad with Null", func(t *testing.T) {
		tbl, err := io.NewCSVReader(strings.NewReader("a,b,c\n1\n"), io.DefaultCSVOptions()).Read()
		require.NoError(t, err)
		assert.Equal(t, value.Null(), tbl.Row(0).Get("c"))
		assert.True(t, tbl.Row(0).Has("c"))
	})

	t.Run("long records are an error", func(t *testing.T) {
		_, err := io.NewCSVReader(strings.NewReader("a\n1,2\n"), io.DefaultCSVOptions()).Read()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record 1")
	})

	t.Run("custom delimiter and empty input", func(t *testing.T) {
		opts := io.DefaultCSVOptions()
		opts.Delimiter = ';'
		tbl, err := io.NewCSVReader(strings.NewReader("x;y\n1;2\n"), opts).Read()
		require.NoError(t, err)
		assert.Equal(t, value.Int(2), tbl.Row(0).Get("y"))

		empty, err := io.NewCSVReader(strings.NewReader(""), io.DefaultCSVOptions()).Read()
		require.NoError(t, err)
		assert.Equal(t, 0, empty.Len())
	})
}

func TestCSVWriter(t *testing.T) {
	tbl := table.New(
		table.MustRow("id", 1, "name", "a,b"),
		table.MustRow("id", 2.5, "extra", true),
		table.MustRow("id", nil),
	)

	var buf bytes.Buffer
	require.NoError(t, io.NewCSVWriter(&buf, io.DefaultCSVOptions()).Write(tbl))
	assert.Equal(t, "id,name,extra\n1,\"a,b\",\n2.5,,true\n,,\n", buf.String())
}

func TestCSV_RoundTrip(t *testing.T) {
	src := testutil.CreateTestTable(testutil.WithNulls(), testutil.WithActiveColumn(), testutil.WithRowCount(6))

	var buf bytes.Buffer
	require.NoError(t, io.NewCSVWriter(&buf, io.DefaultCSVOptions()).Write(src))

	back, err := io.NewCSVReader(&buf, io.DefaultCSVOptions()).Read()
	require.NoError(t, err)
	testutil.AssertTableEqual(t, src, back)
}
