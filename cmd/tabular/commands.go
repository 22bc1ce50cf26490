package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/paveg/tabular"
	"github.com/paveg/tabular/internal/config"
	tio "github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/monitoring"
	"github.com/paveg/tabular/internal/version"
	"github.com/spf13/cobra"
)

// app carries the persistent flags and the state built from them in the
// root PersistentPreRunE.
type app struct {
	stderr io.Writer

	logFormat   string
	logLevel    string
	configPath  string
	outPath     string
	format      string
	verbose     bool
	metrics     bool
	metricsAddr string

	logger    *slog.Logger
	cfg       tabular.Config
	collector *monitoring.MetricsCollector
	server    *monitoring.Server
	served    chan error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:           "tabular",
		Short:         "Group, join, reshape and rank tabular files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&a.configPath, "config", "", "JSON or YAML configuration file (default: TABULAR_* environment)")
	pf.StringVarP(&a.outPath, "out", "o", "", "output file; the extension selects the format (default: stdout)")
	pf.StringVarP(&a.format, "format", "f", "csv", "stdout format: csv, json, jsonl or parquet")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every table operation at debug level")
	pf.BoolVar(&a.metrics, "metrics", false, "log an operation summary when done")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve /metrics, /summary and /health on this address while running")

	root.AddCommand(
		a.groupbyCmd(),
		a.sortCmd(),
		a.rankCmd(),
		a.dedupCmd(),
		a.mergeCmd(),
		a.pivotCmd(),
		a.meltCmd(),
		a.describeCmd(),
		a.corrCmd(),
		a.cleanCmd(),
		a.astypeCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	level := a.logLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := newLogger(a.stderr, a.logFormat, level)
	if err != nil {
		return err
	}
	a.logger = logger

	cfg := config.LoadFromEnv()
	if a.configPath != "" {
		if cfg, err = tabular.LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	if a.verbose {
		cfg.VerboseLogging = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.metrics || a.metricsAddr != "" {
		a.collector = monitoring.NewMetricsCollector(true)
	}
	if a.metricsAddr != "" {
		ln, err := net.Listen("tcp", a.metricsAddr)
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		a.server = monitoring.NewMonitoringServer(a.collector, ln.Addr().String())
		a.served = make(chan error, 1)
		go func() { a.served <- a.server.Serve(ln) }()
		a.logger.Info("metrics server listening", "addr", ln.Addr().String())
	}
	return nil
}

// teardown stops the metrics server started by setup.
func (a *app) teardown() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	a.server = nil
	return <-a.served
}

func (a *app) load(path string) (*tabular.Table, error) {
	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded table", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

func (a *app) session(path string) (*tabular.Session, error) {
	t, err := a.load(path)
	if err != nil {
		return nil, err
	}
	opts := []tabular.SessionOption{tabular.WithConfig(a.cfg), tabular.WithLogger(a.logger)}
	if a.collector != nil {
		opts = append(opts, tabular.WithMetrics(a.collector))
	}
	return tabular.NewSession(t, opts...), nil
}

// emit writes the session result to --out or to the command's stdout.
func (a *app) emit(cmd *cobra.Command, s *tabular.Session) error {
	t, err := s.Result()
	if err != nil {
		return err
	}

	if a.outPath != "" {
		if err := tabular.WriteFile(t, a.outPath); err != nil {
			return err
		}
		a.logger.Info("wrote table", "path", a.outPath, "rows", t.Len())
	} else {
		format, err := tio.ParseFormat(a.format)
		if err != nil {
			return err
		}
		if err := tio.NewWriter(format, cmd.OutOrStdout()).Write(t); err != nil {
			return fmt.Errorf("writing %s output: %w", format, err)
		}
		if format == tio.FormatJSON {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	if a.collector != nil {
		sum := a.collector.GetSummary()
		a.logger.Info("operation summary",
			"operations", sum.TotalOperations,
			"failures", sum.Failures,
			"rows", sum.TotalRows,
			"duration", sum.TotalDuration,
		)
	}
	return nil
}

// run loads the single input file, applies op and writes the result.
func (a *app) run(op func(*tabular.Session) *tabular.Session) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.session(args[0])
		if err != nil {
			return err
		}
		return a.emit(cmd, op(s))
	}
}

func (a *app) groupbyCmd() *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "groupby FILE --by COL[,COL...]",
		Short: "Summarise numeric columns per group (count, mean, sum, std, min, max)",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.GroupByAggregate(by...)
		}),
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "grouping columns")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) sortCmd() *cobra.Command {
	var (
		by   []string
		desc bool
	)
	cmd := &cobra.Command{
		Use:   "sort FILE --by COL[,COL...]",
		Short: "Stable sort by one or more columns",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.Sort(by, !desc)
		}),
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "sort columns")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) rankCmd() *cobra.Command {
	var (
		by  []string
		top int
	)
	cmd := &cobra.Command{
		Use:   "rank FILE --by COL[,COL...]",
		Short: "Order rows descending, nulls last",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			s = s.Rank(by...)
			if top > 0 {
				s = s.Head(top)
			}
			return s
		}),
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "rank columns")
	cmd.Flags().IntVar(&top, "top", 0, "keep only the first N rows")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) dedupCmd() *cobra.Command {
	var keys []string
	cmd := &cobra.Command{
		Use:   "dedup FILE [--keys COL[,COL...]]",
		Short: "Keep the first row per key (all columns when no keys are given)",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.DropDuplicates(keys...)
		}),
	}
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "key columns")
	return cmd
}

func (a *app) mergeCmd() *cobra.Command {
	var (
		how     string
		on      []string
		rightOn []string
	)
	cmd := &cobra.Command{
		Use:   "merge LEFT RIGHT --on COL[,COL...]",
		Short: "Join two files on key columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			joinType, err := tabular.ParseJoinType(how)
			if err != nil {
				return err
			}
			right, err := a.load(args[1])
			if err != nil {
				return err
			}
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, s.Merge(right, joinType, on, rightOn...))
		},
	}
	cmd.Flags().StringVar(&how, "how", "inner", "join type: inner, left, right or outer")
	cmd.Flags().StringSliceVar(&on, "on", nil, "left key columns")
	cmd.Flags().StringSliceVar(&rightOn, "right-on", nil, "right key columns (default: --on)")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

func (a *app) pivotCmd() *cobra.Command {
	var index, columns, values, agg string
	cmd := &cobra.Command{
		Use:   "pivot FILE --index COL --columns COL --values COL",
		Short: "Reshape long to wide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := tabular.ParseAggFunc(agg)
			if err != nil {
				return err
			}
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, s.Pivot(index, columns, values, fn))
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&index, "index", "", "row identifier column")
	flags.StringVar(&columns, "columns", "", "column whose values become field names")
	flags.StringVar(&values, "values", "", "column to aggregate")
	flags.StringVar(&agg, "agg", "sum", "aggregate: sum, mean, min or max")
	for _, name := range []string{"index", "columns", "values"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) meltCmd() *cobra.Command {
	var idVars, valueVars []string
	cmd := &cobra.Command{
		Use:   "melt FILE --id COL[,COL...] --value COL[,COL...]",
		Short: "Reshape wide to long (variable, value)",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.Melt(idVars, valueVars)
		}),
	}
	cmd.Flags().StringSliceVar(&idVars, "id", nil, "identifier columns kept on every output row")
	cmd.Flags().StringSliceVar(&valueVars, "value", nil, "columns unpivoted into variable/value pairs")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Summary statistics for every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.Describe()
		}),
	}
}

func (a *app) corrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corr FILE",
		Short: "Pearson correlation matrix of the numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			return s.CorrelationMatrix()
		}),
	}
}

func (a *app) cleanCmd() *cobra.Command {
	var (
		standardize []string
		normalize   []string
		interpolate []string
	)
	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Drop incomplete and duplicate rows after optional gap filling and rescaling",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(s *tabular.Session) *tabular.Session {
			if len(interpolate) > 0 {
				s = s.Interpolate("linear", interpolate...)
			}
			if len(standardize) > 0 {
				s = s.Standardize(standardize...)
			}
			if len(normalize) > 0 {
				s = s.Normalize(normalize...)
			}
			return s.Clean()
		}),
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&interpolate, "interpolate", nil, "fill interior gaps linearly in these columns first")
	flags.StringSliceVar(&standardize, "standardize", nil, "columns rescaled to zero mean and unit deviation")
	flags.StringSliceVar(&normalize, "normalize", nil, "columns rescaled to [0, 1]")
	return cmd
}

func (a *app) astypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "astype FILE COL=KIND...",
		Short: "Convert columns to number, text, boolean or timestamp",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseTypes(args[1:])
			if err != nil {
				return err
			}
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, s.Astype(types))
		},
	}
}

func parseTypes(specs []string) (map[string]tabular.Kind, error) {
	types := make(map[string]tabular.Kind, len(specs))
	for _, spec := range specs {
		col, name, ok := strings.Cut(spec, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("astype: want COL=KIND, got %q", spec)
		}
		kind, err := tabular.ParseKind(name)
		if err != nil {
			return nil, err
		}
		types[col] = kind
	}
	return types, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Skips the root setup.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), version.Info().String())
			return nil
		},
	}
}
