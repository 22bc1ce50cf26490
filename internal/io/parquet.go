package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// Read reads Parquet data and returns a Table.
func (r *ParquetReader) Read() (*table.Table, error) {
	return r.ReadContext(context.Background())
}

// ReadContext is Read with a caller-supplied context for the Arrow reader.
func (r *ParquetReader) ReadContext(ctx context.Context) (*table.Table, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer tbl.Release()

	return arrowTableToTable(tbl)
}

func arrowTableToTable(tbl arrow.Table) (*table.Table, error) {
	rows := make([]*table.Row, tbl.NumRows())
	for i := range rows {
		rows[i] = &table.Row{}
	}

	schema := tbl.Schema()
	for c := range int(tbl.NumCols()) {
		name := schema.Field(c).Name
		offset := 0
		for _, chunk := range tbl.Column(c).Data().Chunks() {
			for i := range chunk.Len() {
				v, err := arrowValue(chunk, i)
				if err != nil {
					return nil, fmt.Errorf("converting column %s: %w", name, err)
				}
				rows[offset+i].Set(name, v)
			}
			offset += chunk.Len()
		}
	}
	return table.New(rows...), nil
}

func arrowValue(arr arrow.Array, i int) (value.Value, error) {
	if arr.IsNull(i) {
		return value.Null(), nil
	}
	switch a := arr.(type) {
	case *array.Float64:
		return value.Number(a.Value(i)), nil
	case *array.Float32:
		return value.Number(float64(a.Value(i))), nil
	case *array.Int64:
		return value.Int(a.Value(i)), nil
	case *array.Int32:
		return value.Int(int64(a.Value(i))), nil
	case *array.Int16:
		return value.Int(int64(a.Value(i))), nil
	case *array.Int8:
		return value.Int(int64(a.Value(i))), nil
	case *array.Uint64:
		return value.Number(float64(a.Value(i))), nil
	case *array.Uint32:
		return value.Int(int64(a.Value(i))), nil
	case *array.Boolean:
		return value.Bool(a.Value(i)), nil
	case *array.String:
		return value.Text(a.Value(i)), nil
	case *array.LargeString:
		return value.Text(a.Value(i)), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return value.Timestamp(a.Value(i).ToTime(unit)), nil
	case *array.Date32:
		return value.Timestamp(a.Value(i).ToTime()), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported Arrow type: %s", arr.DataType())
	}
}

// Write writes the Table in Parquet format. Each column takes the Arrow
// type of its first non-null value; a column whose values disagree on
// kind, or that holds only nulls, is written as text.
func (w *ParquetWriter) Write(t *table.Table) error {
	rec := w.toRecord(t)
	defer rec.Release()

	var compression compress.Compression
	switch w.options.Compression {
	case "gzip":
		compression = compress.Codecs.Gzip
	case "lz4":
		compression = compress.Codecs.Lz4Raw
	case "zstd":
		compression = compress.Codecs.Zstd
	case "uncompressed":
		compression = compress.Codecs.Uncompressed
	default:
		compression = compress.Codecs.Snappy
	}

	batch := int64(w.options.BatchSize)
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(batch),
		parquet.WithAllocator(w.mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(w.mem))

	// pqarrow closes an io.Closer sink; the caller owns w.writer.
	sink := struct{ io.Writer }{w.writer}
	writer, err := pqarrow.NewFileWriter(rec.Schema(), sink, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing file writer: %w", err)
	}
	return nil
}

// columnType picks the Arrow type for the values of one column.
func columnType(vals []value.Value) arrow.DataType {
	kind := value.KindMissing
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		if kind == value.KindMissing {
			kind = v.Kind()
			continue
		}
		if v.Kind() != kind {
			return arrow.BinaryTypes.String
		}
	}
	switch kind {
	case value.KindNumber:
		return arrow.PrimitiveTypes.Float64
	case value.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case value.KindTimestamp:
		return timestampType
	default:
		return arrow.BinaryTypes.String
	}
}

func (w *ParquetWriter) toRecord(t *table.Table) arrow.Record {
	cols := t.Columns()
	values := make([][]value.Value, len(cols))
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		values[i] = t.Column(c)
		fields[i] = arrow.Field{Name: c, Type: columnType(values[i]), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(w.mem, schema)
	defer b.Release()

	for i, vals := range values {
		fb := b.Field(i)
		for _, v := range vals {
			if v.IsNull() {
				fb.AppendNull()
				continue
			}
			switch typed := fb.(type) {
			case *array.Float64Builder:
				f, _ := v.Float()
				typed.Append(f)
			case *array.BooleanBuilder:
				x, _ := v.Boolean()
				typed.Append(x)
			case *array.TimestampBuilder:
				ts, _ := v.Time()
				typed.Append(arrow.Timestamp(ts.UTC().UnixMicro()))
			case *array.StringBuilder:
				typed.Append(v.String())
			}
		}
	}
	return b.NewRecord()
}

// TimestampPrecision is the resolution kept by the Parquet writer.
const TimestampPrecision = time.Microsecond
