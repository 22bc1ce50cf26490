// Package tabular is an in-memory relational table engine.
// This package is the public API for the library.
//
// A Table is an ordered sequence of Rows, each an ordered mapping from
// column name to a dynamically-typed Value. Every operation returns a new
// Table that shares no row storage with its input:
//
//	tbl, _ := tabular.ReadFile("sales.csv")
//	summary, err := tbl.GroupByAggregate("region")
//
// Session chains operations over one Table with logging, metrics and the
// semantics settings of a Config.
package tabular

import (
	"fmt"
	"os"

	tio "github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
)

type (
	// Value is a single table cell.
	Value = value.Value
	// Kind is the tag of a Value.
	Kind = value.Kind
	// Tuple is an ordered list of key values.
	Tuple = value.Tuple
	// ConvertMode selects strict or best-effort conversion.
	ConvertMode = value.ConvertMode

	// Row is an ordered mapping from column name to Value.
	Row = table.Row
	// Table is an ordered sequence of Rows.
	Table = table.Table
	// Groups is the result of a raw GroupBy.
	Groups = table.Groups
	// Group is one bucket of Groups.
	Group = table.Group

	// JoinType selects the Merge mode.
	JoinType = table.JoinType
	// OuterMode selects how outer merges treat matched pairs.
	OuterMode = table.OuterMode
	// MergeOptions configures Merge.
	MergeOptions = table.MergeOptions
	// AggFunc is a pivot or rolling reduction.
	AggFunc = table.AggFunc
	// NullOrder places nulls in a sort.
	NullOrder = table.NullOrder
	// SortOptions configures Sort.
	SortOptions = table.SortOptions
	// ParallelOptions configures the parallel rank path.
	ParallelOptions = table.ParallelOptions
)

const (
	KindMissing   = value.KindMissing
	KindNull      = value.KindNull
	KindBool      = value.KindBool
	KindNumber    = value.KindNumber
	KindTimestamp = value.KindTimestamp
	KindText      = value.KindText

	Strict     = value.Strict
	BestEffort = value.BestEffort

	InnerJoin = table.InnerJoin
	LeftJoin  = table.LeftJoin
	RightJoin = table.RightJoin
	OuterJoin = table.OuterJoin

	OuterCompat   = table.OuterCompat
	OuterDistinct = table.OuterDistinct

	AggSum  = table.AggSum
	AggMean = table.AggMean
	AggMin  = table.AggMin
	AggMax  = table.AggMax

	NullsAuto  = table.NullsAuto
	NullsFirst = table.NullsFirst
	NullsLast  = table.NullsLast
)

// Value constructors.
var (
	Number    = value.Number
	Int       = value.Int
	Text      = value.Text
	Bool      = value.Bool
	Timestamp = value.Timestamp
	Null      = value.Null
	Missing   = value.Missing
	ValueOf   = value.Of
)

// New creates a Table holding copies of rows.
func New(rows ...*Row) *Table {
	return table.New(rows...)
}

// NewRow builds a Row from alternating name, value pairs.
func NewRow(pairs ...any) (*Row, error) {
	return table.NewRow(pairs...)
}

// MustRow is NewRow for literals; it panics on error.
func MustRow(pairs ...any) *Row {
	return table.MustRow(pairs...)
}

// FromMaps builds a Table from Go maps. Columns in order come first; the
// remaining keys of each map follow in sorted order.
func FromMaps(order []string, records []map[string]any) (*Table, error) {
	return table.FromMaps(order, records)
}

// ParseJoinType parses inner, left, right or outer.
func ParseJoinType(s string) (JoinType, error) {
	return table.ParseJoinType(s)
}

// ParseKind parses a conversion target: number, text, boolean or timestamp.
func ParseKind(s string) (Kind, error) {
	return value.ParseKind(s)
}

// ParseAggFunc parses sum, mean, min or max.
func ParseAggFunc(s string) (AggFunc, error) {
	return table.ParseAggFunc(s)
}

// ReadFile loads a CSV, JSON, JSON Lines or Parquet file, chosen by
// extension.
func ReadFile(path string) (*Table, error) {
	format, err := tio.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := tio.NewReader(format, f).Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// WriteFile stores t in the format chosen by the extension of path.
func WriteFile(t *Table, path string) (err error) {
	format, err := tio.DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := tio.NewWriter(format, f).Write(t); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
