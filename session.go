package tabular

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/paveg/tabular/internal/config"
	"github.com/paveg/tabular/internal/monitoring"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/value"
)

// Config holds the parallel and semantics settings a Session applies.
type Config = config.Config

// NewConfig returns the default configuration.
func NewConfig() Config { return config.NewConfig() }

// LoadConfig reads a JSON or YAML configuration file.
func LoadConfig(path string) (Config, error) { return config.LoadFromFile(path) }

// Session is a single-owner handle that threads one Table through a chain
// of operations. Each call replaces the current Table with the result.
// The first failure sticks: later calls are skipped and Result reports it.
//
// Example:
//
//	out, err := tabular.NewSession(tbl).
//		DropNa().
//		Sort([]string{"score"}, false).
//		Head(10).
//		Result()
type Session struct {
	cur     *Table
	cfg     Config
	logger  *slog.Logger
	metrics *monitoring.MetricsCollector

	outer   table.OuterMode
	nulls   table.NullOrder
	convert value.ConvertMode

	err error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithConfig replaces the global configuration for this session.
func WithConfig(cfg Config) SessionOption {
	return func(s *Session) { s.cfg = cfg.WithDefaults() }
}

// WithLogger sets the logger used when VerboseLogging is on.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithMetrics records every operation on mc.
func WithMetrics(mc *monitoring.MetricsCollector) SessionOption {
	return func(s *Session) { s.metrics = mc }
}

// NewSession starts a session on t. Without WithConfig the global
// configuration applies. An invalid configuration fails the session.
func NewSession(t *Table, opts ...SessionOption) *Session {
	s := &Session{
		cur: t,
		cfg: config.GetGlobalConfig().WithDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cur == nil {
		s.cur = table.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.metrics == nil && s.cfg.MetricsCollection {
		s.metrics = monitoring.EnableGlobalMonitoring()
	}

	if err := s.cfg.Validate(); err != nil {
		s.err = err
		return s
	}
	// Validate guarantees the names parse.
	s.outer, _ = table.ParseOuterMode(s.cfg.OuterJoinMode)
	s.nulls, _ = table.ParseNullOrder(s.cfg.NullOrder)
	s.convert, _ = value.ParseConvertMode(s.cfg.ConvertMode)
	return s
}

// Table returns the current Table, or nil after a failure.
func (s *Session) Table() *Table {
	if s.err != nil {
		return nil
	}
	return s.cur
}

// Err returns the first failure of the chain.
func (s *Session) Err() error { return s.err }

// Result returns the current Table and the first failure of the chain.
func (s *Session) Result() (*Table, error) {
	return s.Table(), s.err
}

func (s *Session) apply(op string, fn func(*Table) (*Table, error)) *Session {
	if s.err != nil {
		return s
	}

	rowsIn := s.cur.Len()
	start := time.Now()
	var out *Table
	run := func() (int, error) {
		var err error
		out, err = fn(s.cur)
		if err != nil {
			return 0, err
		}
		return out.Len(), nil
	}

	var err error
	if s.metrics != nil {
		err = s.metrics.RecordOperation(op, rowsIn, run)
	} else {
		err = monitoring.RecordGlobalOperation(op, rowsIn, run)
	}

	if s.cfg.VerboseLogging {
		attrs := []slog.Attr{
			slog.String("op", op),
			slog.Int("rows_in", rowsIn),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		} else {
			attrs = append(attrs, slog.Int("rows_out", out.Len()))
		}
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "table operation", attrs...)
	}

	if err != nil {
		s.err = err
		return s
	}
	s.cur = out
	return s
}

func infallible(fn func(*Table) *Table) func(*Table) (*Table, error) {
	return func(t *Table) (*Table, error) { return fn(t), nil }
}

// Select keeps the named columns.
func (s *Session) Select(cols ...string) *Session {
	return s.apply("Select", infallible(func(t *Table) *Table { return t.Select(cols...) }))
}

// Drop removes the named columns.
func (s *Session) Drop(cols ...string) *Session {
	return s.apply("Drop", infallible(func(t *Table) *Table { return t.Drop(cols...) }))
}

// Head keeps the first n rows.
func (s *Session) Head(n int) *Session {
	return s.apply("Head", infallible(func(t *Table) *Table { return t.Head(n) }))
}

// Concat appends the rows of others.
func (s *Session) Concat(others ...*Table) *Session {
	return s.apply("Concat", infallible(func(t *Table) *Table { return t.Concat(others...) }))
}

// DropNa removes rows holding a missing-like value.
func (s *Session) DropNa() *Session {
	return s.apply("DropNa", infallible((*Table).DropNa))
}

// FillNa replaces Null, Missing and NaN with fill.
func (s *Session) FillNa(fill Value, cols ...string) *Session {
	return s.apply("FillNa", infallible(func(t *Table) *Table { return t.FillNa(fill, cols...) }))
}

// DropDuplicates keeps the first row per key.
func (s *Session) DropDuplicates(keys ...string) *Session {
	return s.apply("DropDuplicates", infallible(func(t *Table) *Table { return t.DropDuplicates(keys...) }))
}

// Sort orders the table by columns using the configured null order. One
// direction applies to every column.
func (s *Session) Sort(columns []string, ascending bool) *Session {
	return s.apply("Sort", func(t *Table) (*Table, error) {
		return t.Sort(SortOptions{Columns: columns, Ascending: []bool{ascending}, Nulls: s.nulls})
	})
}

// Rank orders the table descending by columns with the configured
// parallel settings.
func (s *Session) Rank(columns ...string) *Session {
	return s.apply("Rank", func(t *Table) (*Table, error) {
		return t.RankWithOptions(columns, table.ParallelOptionsFrom(s.cfg))
	})
}

// GroupByAggregate replaces the table with per-group summaries.
func (s *Session) GroupByAggregate(keys ...string) *Session {
	return s.apply("GroupByAggregate", func(t *Table) (*Table, error) {
		return t.GroupByAggregate(keys...)
	})
}

// Merge joins the table with right on positional key columns. rightOn
// defaults to leftOn. Outer merges use the configured outer mode.
func (s *Session) Merge(right *Table, how JoinType, leftOn []string, rightOn ...string) *Session {
	return s.apply("Merge", func(t *Table) (*Table, error) {
		return t.Merge(right, MergeOptions{How: how, LeftOn: leftOn, RightOn: rightOn, Outer: s.outer})
	})
}

// Pivot reshapes the table from long to wide.
func (s *Session) Pivot(index, columns, values string, agg AggFunc) *Session {
	return s.apply("Pivot", func(t *Table) (*Table, error) {
		return t.Pivot(index, columns, values, agg)
	})
}

// Melt reshapes the table from wide to long.
func (s *Session) Melt(idVars, valueVars []string) *Session {
	return s.apply("Melt", func(t *Table) (*Table, error) {
		return t.Melt(idVars, valueVars)
	})
}

// Astype converts columns with the configured conversion mode.
func (s *Session) Astype(types map[string]Kind) *Session {
	return s.apply("Astype", func(t *Table) (*Table, error) {
		return t.Astype(types, s.convert)
	})
}

// Clean drops incomplete rows, then duplicates, then zero-fills.
func (s *Session) Clean() *Session {
	return s.apply("Clean", infallible((*Table).Clean))
}

// Standardize rescales columns to zero mean and unit sample deviation.
func (s *Session) Standardize(cols ...string) *Session {
	return s.apply("Standardize", func(t *Table) (*Table, error) {
		return t.Standardize(cols...)
	})
}

// Normalize rescales columns to [0, 1].
func (s *Session) Normalize(cols ...string) *Session {
	return s.apply("Normalize", func(t *Table) (*Table, error) {
		return t.Normalize(cols...)
	})
}

// Interpolate fills interior gaps of columns.
func (s *Session) Interpolate(method string, cols ...string) *Session {
	return s.apply("Interpolate", func(t *Table) (*Table, error) {
		return t.Interpolate(method, cols...)
	})
}

// Transform maps every cell of column through fn.
func (s *Session) Transform(column string, fn func(Value) Value) *Session {
	return s.apply("Transform", infallible(func(t *Table) *Table {
		return t.Transform(column, fn)
	}))
}

// CorrelationMatrix replaces the table with the pairwise correlations of
// its numeric columns.
func (s *Session) CorrelationMatrix() *Session {
	return s.apply("CorrelationMatrix", (*Table).CorrelationMatrix)
}

// Describe replaces the table with its numeric summary.
func (s *Session) Describe() *Session {
	return s.apply("Describe", (*Table).Describe)
}
