package table

import (
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/stats"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
)

// Aggregate column suffixes, in output order.
const (
	SuffixCount = "_count"
	SuffixMean  = "_mean"
	SuffixSum   = "_sum"
	SuffixStd   = "_std"
	SuffixMin   = "_min"
	SuffixMax   = "_max"
)

// Group is one bucket of a GroupBy.
type Group struct {
	Key  value.Tuple
	Rows *Table
}

// Groups is the raw result of GroupBy: buckets in first-seen key order,
// each preserving the input order of its rows.
type Groups struct {
	keys   []string
	index  *keyIndex
	groups []Group
}

// GroupBy partitions t by the KeyTuple at keys. Null and Missing key
// values form groups of their own. An empty table gives empty Groups.
func (t *Table) GroupBy(keys ...string) (*Groups, error) {
	if len(keys) == 0 {
		return nil, errors.NewInvalidInputError("GroupBy", "at least one key column is required")
	}
	ix := indexBy(t, keys)
	groups := make([]Group, ix.len())
	for id := range groups {
		groups[id] = Group{Key: ix.keys[id], Rows: t.pick(ix.members[id])}
	}
	return &Groups{keys: append([]string(nil), keys...), index: ix, groups: groups}, nil
}

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.groups) }

// KeyColumns returns the grouping columns.
func (g *Groups) KeyColumns() []string { return append([]string(nil), g.keys...) }

// Groups returns every bucket in first-seen order.
func (g *Groups) Groups() []Group { return append([]Group(nil), g.groups...) }

// Get returns the bucket for key.
func (g *Groups) Get(key ...value.Value) (*Table, bool) {
	id, ok := g.index.find(value.Tuple(key))
	if !ok {
		return nil, false
	}
	return g.groups[id].Rows, true
}

// Aggregate reduces every bucket to one row: the key columns followed by
// count, mean, sum, std, min and max of each other column that holds at
// least one Number in that bucket.
func (g *Groups) Aggregate() (*Table, error) {
	if len(g.groups) == 0 {
		return nil, errors.NewEmptyTableError("GroupByAggregate")
	}

	isKey := make(map[string]bool, len(g.keys))
	for _, k := range g.keys {
		isKey[k] = true
	}

	rows := make([]*Row, len(g.groups))
	for i, grp := range g.groups {
		out := &Row{}
		for j, k := range g.keys {
			out.Set(k, grp.Key[j])
		}
		for _, col := range grp.Rows.Columns() {
			if isKey[col] {
				continue
			}
			vals := grp.Rows.Column(col)
			if !stats.HasNumber(vals) {
				continue
			}
			s := stats.Summarize(vals)
			out.Set(col+SuffixCount, value.Int(int64(s.Count)))
			out.Set(col+SuffixMean, value.Number(s.Mean))
			out.Set(col+SuffixSum, value.Number(s.Sum))
			out.Set(col+SuffixStd, value.Number(s.Std))
			out.Set(col+SuffixMin, value.Number(s.Min))
			out.Set(col+SuffixMax, value.Number(s.Max))
		}
		rows[i] = out
	}
	return owned(rows), nil
}

// GroupByAggregate is GroupBy followed by Aggregate. It is a precondition
// error on an empty table.
func (t *Table) GroupByAggregate(keys ...string) (*Table, error) {
	if err := validation.ValidateNotEmpty(t, "GroupByAggregate"); err != nil {
		return nil, err
	}
	g, err := t.GroupBy(keys...)
	if err != nil {
		return nil, err
	}
	return g.Aggregate()
}
