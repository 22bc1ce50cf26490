package io

import (
	"encoding/csv"
	"fmt"

	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
)

// Read reads CSV data and returns a Table. Every cell goes through
// value.Infer; a record shorter than the header yields Null for the
// trailing columns.
func (r *CSVReader) Read() (*table.Table, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return table.New(), nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	rows := make([]*table.Row, len(dataRows))
	for i, rec := range dataRows {
		if len(rec) > len(headers) {
			return nil, fmt.Errorf("reading CSV: record %d has %d fields, header has %d", i+1, len(rec), len(headers))
		}
		row := &table.Row{}
		for j, name := range headers {
			v := value.Null()
			if j < len(rec) {
				v = value.Infer(rec[j])
			}
			row.Set(name, v)
		}
		rows[i] = row
	}
	return table.New(rows...), nil
}

// Write writes the Table in CSV format. The header is t.Columns(); a
// row that lacks a column, or holds Null there, writes an empty cell.
func (w *CSVWriter) Write(t *table.Table) error {
	csvWriter := csv.NewWriter(w.writer)
	if w.options.Delimiter != 0 {
		csvWriter.Comma = w.options.Delimiter
	}

	cols := t.Columns()
	if w.options.Header {
		if err := csvWriter.Write(cols); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	record := make([]string, len(cols))
	var err error
	t.Each(func(i int, r *table.Row) {
		if err != nil {
			return
		}
		for j, c := range cols {
			record[j] = r.Get(c).String()
		}
		if werr := csvWriter.Write(record); werr != nil {
			err = fmt.Errorf("writing row %d: %w", i, werr)
		}
	})
	if err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
