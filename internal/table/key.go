package table

import (
	"github.com/paveg/tabular/internal/value"
	"golang.org/x/exp/slices"
)

// Key extracts the KeyTuple of r at cols. Absent columns give Missing.
func Key(r *Row, cols []string) value.Tuple {
	k := make(value.Tuple, len(cols))
	for i, c := range cols {
		k[i] = r.Get(c)
	}
	return k
}

// keyIndex assigns dense group ids to distinct KeyTuples in first-seen
// order. Hash collisions are resolved by Tuple.Equal.
type keyIndex struct {
	byHash  map[uint64][]int
	keys    []value.Tuple
	members [][]int
}

func newKeyIndex(sizeHint int) *keyIndex {
	return &keyIndex{byHash: make(map[uint64][]int, sizeHint)}
}

// find returns the group id of k.
func (ix *keyIndex) find(k value.Tuple) (int, bool) {
	return ix.findHashed(k, k.Hash())
}

func (ix *keyIndex) findHashed(k value.Tuple, h uint64) (int, bool) {
	for _, id := range ix.byHash[h] {
		if ix.keys[id].Equal(k) {
			return id, true
		}
	}
	return -1, false
}

// add records row as a member of k's group, creating the group if needed.
func (ix *keyIndex) add(k value.Tuple, row int) int {
	h := k.Hash()
	id, ok := ix.findHashed(k, h)
	if !ok {
		id = len(ix.keys)
		ix.byHash[h] = append(ix.byHash[h], id)
		ix.keys = append(ix.keys, k)
		ix.members = append(ix.members, nil)
	}
	ix.members[id] = append(ix.members[id], row)
	return id
}

func (ix *keyIndex) len() int { return len(ix.keys) }

// indexBy groups the rows of t by their KeyTuple at cols.
func indexBy(t *Table, cols []string) *keyIndex {
	ix := newKeyIndex(len(t.rows))
	for i, r := range t.rows {
		ix.add(Key(r, cols), i)
	}
	return ix
}

// rowKey is the KeyTuple of a whole row: its column names in sorted order
// followed by the matching values, so field order does not matter.
func rowKey(r *Row) value.Tuple {
	names := r.Columns()
	slices.Sort(names)
	k := make(value.Tuple, 0, 2*len(names))
	for _, n := range names {
		k = append(k, value.Text(n), r.Get(n))
	}
	return k
}
