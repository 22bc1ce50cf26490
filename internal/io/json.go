package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
	"github.com/tidwall/gjson"
)

// Read reads JSON data and returns a Table. Object keys keep their
// document order.
func (r *JSONReader) Read() (*table.Table, error) {
	switch r.options.Format {
	case JSONArray:
		return r.readJSONArray()
	case JSONLines:
		return r.readJSONLines()
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
}

// readJSONArray reads JSON array format.
func (r *JSONReader) readJSONArray() (*table.Table, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return table.New(), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing JSON array: invalid JSON")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("parsing JSON array: top-level value is %s, want array", doc.Type)
	}

	var rows []*table.Row
	var rowErr error
	doc.ForEach(func(_, obj gjson.Result) bool {
		if r.options.MaxRecords > 0 && len(rows) >= r.options.MaxRecords {
			return false
		}
		row, err := objectToRow(obj)
		if err != nil {
			rowErr = fmt.Errorf("record %d: %w", len(rows), err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return table.New(rows...), nil
}

// readJSONLines reads JSON Lines format. Blank lines are skipped.
func (r *JSONReader) readJSONLines() (*table.Table, error) {
	scanner := bufio.NewScanner(r.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows []*table.Row
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if r.options.MaxRecords > 0 && len(rows) >= r.options.MaxRecords {
			break
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("line %d: invalid JSON", line)
		}
		row, err := objectToRow(gjson.Parse(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSON lines: %w", err)
	}
	return table.New(rows...), nil
}

func objectToRow(obj gjson.Result) (*table.Row, error) {
	if !obj.IsObject() {
		return nil, fmt.Errorf("expected object, got %s", obj.Type)
	}
	row := &table.Row{}
	obj.ForEach(func(k, v gjson.Result) bool {
		row.Set(k.String(), jsonValue(v))
		return true
	})
	return row, nil
}

// jsonValue maps a JSON scalar to a Value. Nested arrays and objects are
// kept as their raw JSON text.
func jsonValue(v gjson.Result) value.Value {
	switch v.Type {
	case gjson.Null:
		return value.Null()
	case gjson.True:
		return value.Bool(true)
	case gjson.False:
		return value.Bool(false)
	case gjson.Number:
		return value.Number(v.Num)
	case gjson.String:
		return value.Text(v.Str)
	default:
		return value.Text(v.Raw)
	}
}

// Write writes the Table in JSON format. Each row becomes an object whose
// keys follow the row's field order.
func (w *JSONWriter) Write(t *table.Table) error {
	switch w.options.Format {
	case JSONArray:
		return w.writeJSONArray(t)
	case JSONLines:
		return w.writeJSONLines(t)
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
}

func (w *JSONWriter) writeJSONArray(t *table.Table) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range t.Rows() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRow(&buf, r); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}
	buf.WriteByte(']')

	_, err := w.writer.Write(buf.Bytes())
	return err
}

func (w *JSONWriter) writeJSONLines(t *table.Table) error {
	bw := bufio.NewWriter(w.writer)
	var buf bytes.Buffer
	for i, r := range t.Rows() {
		buf.Reset()
		if err := encodeRow(&buf, r); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		buf.WriteByte('\n')
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeRow(buf *bytes.Buffer, r *table.Row) error {
	buf.WriteByte('{')
	var err error
	first := true
	r.Each(func(name string, v value.Value) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = writeJSONString(buf, name); err != nil {
			return
		}
		buf.WriteByte(':')
		err = encodeValue(buf, v)
	})
	buf.WriteByte('}')
	return err
}

// encodeValue writes Null, Missing and non-finite numbers as null and
// timestamps in their canonical text form.
func encodeValue(buf *bytes.Buffer, v value.Value) error {
	switch v.Kind() {
	case value.KindNumber:
		f, _ := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(value.FormatNumber(f))
	case value.KindBool:
		buf.WriteString(v.String())
	case value.KindText, value.KindTimestamp:
		return writeJSONString(buf, v.String())
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
