package table

import (
	"strings"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/validation"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	OuterJoin
)

var joinTypeNames = []string{"inner", "left", "right", "outer"}

// String returns the lower-case join name.
func (j JoinType) String() string {
	if int(j) >= 0 && int(j) < len(joinTypeNames) {
		return joinTypeNames[j]
	}
	return "unknown"
}

// ParseJoinType parses inner, left, right or outer (case-insensitive).
func ParseJoinType(s string) (JoinType, error) {
	for i, name := range joinTypeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return JoinType(i), nil
		}
	}
	return InnerJoin, errors.NewInvalidArgumentError("Merge", "join mode", s, joinTypeNames...)
}

// OuterMode selects how an outer join treats matched pairs.
type OuterMode int

const (
	// OuterCompat emits left(L, R) followed by left(R, L), so every matched
	// pair appears once from each side.
	OuterCompat OuterMode = iota
	// OuterDistinct emits left(L, R) followed only by the right rows that
	// matched nothing.
	OuterDistinct
)

// String returns the configuration name of the mode.
func (m OuterMode) String() string {
	if m == OuterDistinct {
		return "distinct"
	}
	return "compat"
}

// ParseOuterMode parses "compat" or "distinct".
func ParseOuterMode(s string) (OuterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compat":
		return OuterCompat, nil
	case "distinct":
		return OuterDistinct, nil
	default:
		return OuterCompat, errors.NewInvalidArgumentError("Merge", "outer mode", s, "compat", "distinct")
	}
}

// MergeOptions configures Merge. LeftOn and RightOn pair up positionally;
// when RightOn is empty it defaults to LeftOn.
type MergeOptions struct {
	How     JoinType
	LeftOn  []string
	RightOn []string
	Outer   OuterMode
}

// Merge joins t (left) with right on the key columns in opts.
//
// Key tuples compare with key equality, so a Null key matches a Null key.
// Merged rows start from the left row and take every field of the right
// row on top, so right values win on name clashes. A left row without a
// match is emitted once, without right fields.
func (t *Table) Merge(right *Table, opts MergeOptions) (*Table, error) {
	rightOn := opts.RightOn
	if len(rightOn) == 0 {
		rightOn = opts.LeftOn
	}
	if err := validation.NewKeyArityValidator("Merge", opts.LeftOn, rightOn).Validate(); err != nil {
		return nil, err
	}

	switch opts.How {
	case InnerJoin:
		return owned(hashJoin(t, right, opts.LeftOn, rightOn, false, nil)), nil
	case LeftJoin:
		return owned(hashJoin(t, right, opts.LeftOn, rightOn, true, nil)), nil
	case RightJoin:
		return owned(hashJoin(right, t, rightOn, opts.LeftOn, true, nil)), nil
	case OuterJoin:
		var matchedRight []bool
		if opts.Outer == OuterDistinct {
			matchedRight = make([]bool, right.Len())
		}
		rows := hashJoin(t, right, opts.LeftOn, rightOn, true, matchedRight)
		if opts.Outer == OuterDistinct {
			for i, r := range right.rows {
				if !matchedRight[i] {
					rows = append(rows, r.Clone())
				}
			}
		} else {
			rows = append(rows, hashJoin(right, t, rightOn, opts.LeftOn, true, nil)...)
		}
		return owned(rows), nil
	default:
		return nil, errors.NewInvalidArgumentError("Merge", "join mode", opts.How, joinTypeNames...)
	}
}

// hashJoin builds a key index over build and looks up every row of scan
// in order. keepUnmatched emits scan rows without a match;
// matched, when non-nil, records which build rows found a partner.
func hashJoin(scan, build *Table, scanOn, buildOn []string, keepUnmatched bool, matched []bool) []*Row {
	ix := indexBy(build, buildOn)
	rows := make([]*Row, 0, scan.Len())
	for _, p := range scan.rows {
		id, ok := ix.find(Key(p, scanOn))
		if !ok {
			if keepUnmatched {
				rows = append(rows, p.Clone())
			}
			continue
		}
		for _, bi := range ix.members[id] {
			out := p.Clone()
			out.merge(build.rows[bi])
			rows = append(rows, out)
			if matched != nil {
				matched[bi] = true
			}
		}
	}
	return rows
}
