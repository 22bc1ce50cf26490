package table

import "github.com/paveg/tabular/internal/value"

// DropDuplicates keeps the first row for each distinct KeyTuple at keys.
// With no keys the whole row is the key: rows with the same columns and
// equal values are duplicates whatever their field order.
func (t *Table) DropDuplicates(keys ...string) *Table {
	ix := newKeyIndex(t.Len())
	keep := make([]int, 0, t.Len())
	for i, r := range t.rows {
		var k value.Tuple
		if len(keys) == 0 {
			k = rowKey(r)
		} else {
			k = Key(r, keys)
		}
		if _, seen := ix.find(k); seen {
			continue
		}
		ix.add(k, i)
		keep = append(keep, i)
	}
	return t.pick(keep)
}

// Duplicated reports, per row, whether an earlier row has the same
// KeyTuple at keys (the whole row when keys is empty).
func (t *Table) Duplicated(keys ...string) []bool {
	ix := newKeyIndex(t.Len())
	out := make([]bool, t.Len())
	for i, r := range t.rows {
		k := rowKey(r)
		if len(keys) > 0 {
			k = Key(r, keys)
		}
		_, out[i] = ix.find(k)
		ix.add(k, i)
	}
	return out
}
