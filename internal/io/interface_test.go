package io_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want io.Format
	}{
		{"data.csv", io.FormatCSV},
		{"data.JSON", io.FormatJSON},
		{"events.jsonl", io.FormatJSONLines},
		{"events.ndjson", io.FormatJSONLines},
		{"/tmp/t.parquet", io.FormatParquet},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := io.DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := io.DetectFormat("data.xlsx")
	assert.Error(t, err)

	f, err := io.ParseFormat("JSONL")
	require.NoError(t, err)
	assert.Equal(t, io.FormatJSONLines, f)
	_, err = io.ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewReaderWriter(t *testing.T) {
	src := testutil.CreateTestTable()

	for _, f := range []io.Format{io.FormatCSV, io.FormatJSON, io.FormatJSONLines, io.FormatParquet} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, io.NewWriter(f, &buf).Write(src))

			back, err := io.NewReader(f, bytes.NewReader(buf.Bytes())).Read()
			require.NoError(t, err)
			testutil.AssertTableEqual(t, src, back)
		})
	}

	_, err := io.NewReader(io.FormatCSV, strings.NewReader("a\n1,2\n")).Read()
	assert.Error(t, err)
}
