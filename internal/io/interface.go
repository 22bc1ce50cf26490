// Package io reads and writes tables.
//
// This package includes readers and writers for CSV, JSON and Parquet.
// Readers infer one Value per cell, so columns may mix kinds; writers
// emit the union of columns in first-seen order.
//
// Key components:
//   - DataReader/DataWriter interfaces for pluggable I/O backends
//   - CSVReader/CSVWriter with per-cell inference
//   - JSONReader/JSONWriter for arrays of objects and JSON Lines
//   - ParquetReader/ParquetWriter through Apache Arrow
//   - DetectFormat and NewReader/NewWriter for path-driven callers
package io

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabular/internal/table"
)

const (
	// DefaultBatchSize is the default batch size for Parquet writes
	DefaultBatchSize = 1000
)

// DataReader defines the interface for reading a table from a source
type DataReader interface {
	// Read reads data from the source and returns a Table
	Read() (*table.Table, error)
}

// DataWriter defines the interface for writing a table to a destination
type DataWriter interface {
	// Write writes the Table to the destination
	Write(t *table.Table) error
}

// Format is a file format known to DetectFormat.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatJSONLines
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return 0, fmt.Errorf("unsupported file format: %s", path)
	}
}

// ParseFormat parses a format name as printed by Format.String.
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatJSONLines, FormatParquet} {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unsupported format %q (allowed: csv, json, jsonl, parquet)", s)
}

// NewReader returns the default-configured reader for f.
func NewReader(f Format, r io.Reader) DataReader {
	switch f {
	case FormatJSON:
		return NewJSONReader(r, DefaultJSONOptions())
	case FormatJSONLines:
		opts := DefaultJSONOptions()
		opts.Format = JSONLines
		return NewJSONReader(r, opts)
	case FormatParquet:
		return NewParquetReader(r, DefaultParquetOptions(), memory.DefaultAllocator)
	default:
		return NewCSVReader(r, DefaultCSVOptions())
	}
}

// NewWriter returns the default-configured writer for f.
func NewWriter(f Format, w io.Writer) DataWriter {
	switch f {
	case FormatJSON:
		return NewJSONWriter(w, DefaultJSONOptions())
	case FormatJSONLines:
		opts := DefaultJSONOptions()
		opts.Format = JSONLines
		return NewJSONWriter(w, opts)
	case FormatParquet:
		return NewParquetWriter(w, DefaultParquetOptions())
	default:
		return NewCSVWriter(w, DefaultCSVOptions())
	}
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Header:    true,
	}
}

// CSVReader reads CSV data into a Table
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
	}
}

// CSVWriter writes Tables in CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects the JSON layout.
type JSONFormat int

const (
	// JSONArray is a single array of objects.
	JSONArray JSONFormat = iota
	// JSONLines is one object per line.
	JSONLines
)

// JSONOptions contains configuration options for JSON operations
type JSONOptions struct {
	// Format selects array or line-delimited layout
	Format JSONFormat
	// MaxRecords limits the number of records read (0 = unlimited)
	MaxRecords int
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONArray}
}

// JSONReader reads JSON data into a Table
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a new JSON reader with the specified options
func NewJSONReader(reader io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{
		reader:  reader,
		options: options,
	}
}

// JSONWriter writes Tables in JSON format
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		options: options,
	}
}

// ParquetOptions contains configuration options for Parquet operations
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data into a Table
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options.
// A nil allocator uses memory.DefaultAllocator.
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes Tables in Parquet format
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetWriter creates a new Parquet writer with the specified options
func NewParquetWriter(writer io.Writer, options ParquetOptions) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
		mem:     memory.DefaultAllocator,
	}
}

// WithAllocator sets the allocator used for Arrow buffers.
func (w *ParquetWriter) WithAllocator(mem memory.Allocator) *ParquetWriter {
	w.mem = mem
	return w
}
