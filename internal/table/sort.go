package table

import (
	"strings"

	"github.com/paveg/tabular/internal/config"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/parallel"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
	"golang.org/x/exp/slices"
)

// NullOrder places Null and Missing values in a sort.
type NullOrder int

const (
	// NullsAuto treats null as the lowest value: first when ascending,
	// last when descending.
	NullsAuto NullOrder = iota
	// NullsFirst puts nulls first regardless of direction.
	NullsFirst
	// NullsLast puts nulls last regardless of direction.
	NullsLast
)

var nullOrderNames = []string{"auto", "first", "last"}

// String returns the configuration name of the policy.
func (n NullOrder) String() string {
	if int(n) >= 0 && int(n) < len(nullOrderNames) {
		return nullOrderNames[n]
	}
	return "unknown"
}

// ParseNullOrder parses auto, first or last.
func ParseNullOrder(s string) (NullOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NullsAuto, nil
	}
	for i, name := range nullOrderNames {
		if s == name {
			return NullOrder(i), nil
		}
	}
	return NullsAuto, errors.NewInvalidArgumentError("Sort", "null order", s, nullOrderNames...)
}

// SortOptions configures Sort. Ascending holds one direction per column;
// an empty slice sorts every column ascending and a single entry applies
// to all columns.
type SortOptions struct {
	Columns   []string
	Ascending []bool
	Nulls     NullOrder
}

// ParallelOptions configures the parallel path of Rank.
type ParallelOptions struct {
	Threshold int // Rows above which the parallel path runs
	Workers   int // Pool size (0 = one per CPU)
	ChunkSize int // Rows per sorted run (0 = one run per worker)
}

// DefaultParallelOptions reads the parallel settings of the global config.
func DefaultParallelOptions() ParallelOptions {
	return ParallelOptionsFrom(config.GetGlobalConfig())
}

// ParallelOptionsFrom reads the parallel settings of cfg.
func ParallelOptionsFrom(cfg config.Config) ParallelOptions {
	return ParallelOptions{
		Threshold: cfg.ParallelThreshold,
		Workers:   cfg.Workers(),
		ChunkSize: cfg.ChunkSize,
	}
}

type sortKey struct {
	col   string
	asc   bool
	nulls NullOrder
}

func compareValues(a, b value.Value, k sortKey) int {
	an, bn := a.IsNull(), b.IsNull()
	if k.nulls != NullsAuto && (an || bn) {
		switch {
		case an && bn:
			return 0
		case an == (k.nulls == NullsFirst):
			return -1
		default:
			return 1
		}
	}
	c := value.Compare(a, b)
	if !k.asc {
		c = -c
	}
	return c
}

func rowComparator(keys []sortKey) func(a, b *Row) int {
	return func(a, b *Row) int {
		for _, k := range keys {
			if c := compareValues(a.Get(k.col), b.Get(k.col), k); c != 0 {
				return c
			}
		}
		return 0
	}
}

func sortKeys(op string, opts SortOptions) ([]sortKey, error) {
	if err := validation.NewNonEmptyValidator(op, "sort column", opts.Columns).Validate(); err != nil {
		return nil, err
	}
	n := len(opts.Columns)
	if d := len(opts.Ascending); d > 1 && d != n {
		return nil, errors.NewInvalidInputError(op, "ascending flags must match the number of sort columns")
	}
	keys := make([]sortKey, n)
	for i, c := range opts.Columns {
		asc := true
		switch len(opts.Ascending) {
		case 0:
		case 1:
			asc = opts.Ascending[0]
		default:
			asc = opts.Ascending[i]
		}
		keys[i] = sortKey{col: c, asc: asc, nulls: opts.Nulls}
	}
	return keys, nil
}

// Sort orders t by opts.Columns, comparing left to right. The sort is
// stable: rows with equal keys keep their input order. Values of different
// kinds order by kind (Boolean < Number < Timestamp < Text).
func (t *Table) Sort(opts SortOptions) (*Table, error) {
	keys, err := sortKeys("Sort", opts)
	if err != nil {
		return nil, err
	}
	rows := t.Rows()
	slices.SortStableFunc(rows, rowComparator(keys))
	return owned(rows), nil
}

// Rank orders t descending by columns with nulls last, using the parallel
// settings of the global config.
func (t *Table) Rank(columns ...string) (*Table, error) {
	return t.RankWithOptions(columns, DefaultParallelOptions())
}

// RankWithOptions is Rank with explicit parallel settings. Above
// p.Threshold rows the table is cut into runs that are sorted on a worker
// pool and merged. Both paths give the same order when the key columns
// discriminate every row; on ties the parallel path does not promise to
// keep input order.
func (t *Table) RankWithOptions(columns []string, p ParallelOptions) (*Table, error) {
	keys, err := sortKeys("Rank", SortOptions{Columns: columns, Ascending: []bool{false}})
	if err != nil {
		return nil, err
	}
	cmp := rowComparator(keys)
	rows := t.Rows()

	if p.Threshold <= 0 || len(rows) <= p.Threshold {
		slices.SortStableFunc(rows, cmp)
		return owned(rows), nil
	}

	wp := parallel.NewWorkerPool(p.Workers)
	defer wp.Close()
	return owned(parallel.Sort(wp, rows, p.ChunkSize, cmp)), nil
}
