package stats

import (
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/value"
)

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value value.Value
	Count int
}

// Frequency counts each distinct non-null value of vals under key
// equality. Entries are in first-seen order.
func Frequency(vals []value.Value) []ValueCount {
	var out []ValueCount
	pos := make(map[uint64][]int)
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		h := v.Hash()
		found := false
		for _, i := range pos[h] {
			if value.Equal(out[i].Value, v) {
				out[i].Count++
				found = true
				break
			}
		}
		if !found {
			pos[h] = append(pos[h], len(out))
			out = append(out, ValueCount{Value: v, Count: 1})
		}
	}
	return out
}

// Modes returns every value that reaches the highest frequency, in
// first-seen order. It is a precondition error when vals has no non-null
// value.
func Modes(vals []value.Value) ([]value.Value, error) {
	freq := Frequency(vals)
	if len(freq) == 0 {
		return nil, errors.NewPreconditionError("Mode", "no non-null values")
	}
	best := 0
	for _, f := range freq {
		best = max(best, f.Count)
	}
	var out []value.Value
	for _, f := range freq {
		if f.Count == best {
			out = append(out, f.Value)
		}
	}
	return out, nil
}

// Mode returns the first of Modes.
func Mode(vals []value.Value) (value.Value, error) {
	modes, err := Modes(vals)
	if err != nil {
		return value.Missing(), err
	}
	return modes[0], nil
}
