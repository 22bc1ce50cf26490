package value

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const canonicalNaN = 0x7FF8000000000001

// Equal is key equality: kind and content must both match. NaN equals NaN,
// -0 equals +0, and timestamps are equal when they denote the same instant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		if math.IsNaN(a.num) || math.IsNaN(b.num) {
			return math.IsNaN(a.num) && math.IsNaN(b.num)
		}
		return a.num == b.num
	case KindBool:
		return a.num == b.num
	case KindText:
		return a.str == b.str
	case KindTimestamp:
		return a.ts.Equal(b.ts)
	default:
		return true
	}
}

// kindRank orders kinds when two values of different kinds are compared.
// Null and Missing share the lowest rank.
func kindRank(k Kind) int {
	switch k {
	case KindMissing, KindNull:
		return 0
	case KindBool:
		return 1
	case KindNumber:
		return 2
	case KindTimestamp:
		return 3
	default:
		return 4
	}
}

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b.
// Values of different kinds order by kind (Null < Boolean < Number <
// Timestamp < Text); NaN orders before every other Number.
func Compare(a, b Value) int {
	ra, rb := kindRank(a.kind), kindRank(b.kind)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch a.kind {
	case KindNumber:
		an, bn := math.IsNaN(a.num), math.IsNaN(b.num)
		switch {
		case an && bn:
			return 0
		case an:
			return -1
		case bn:
			return 1
		}
		return cmpFloat(a.num, b.num)
	case KindBool:
		return cmpFloat(a.num, b.num)
	case KindText:
		return strings.Compare(a.str, b.str)
	case KindTimestamp:
		return a.ts.Compare(b.ts)
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// WriteHash feeds v into d so that Equal values produce equal digests.
func (v Value) WriteHash(d *xxhash.Digest) {
	var buf [9]byte
	buf[0] = byte(v.kind)
	switch v.kind {
	case KindNumber, KindBool:
		bits := math.Float64bits(v.num)
		switch {
		case math.IsNaN(v.num):
			bits = canonicalNaN
		case v.num == 0:
			bits = 0
		}
		binary.LittleEndian.PutUint64(buf[1:], bits)
		_, _ = d.Write(buf[:])
	case KindTimestamp:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.ts.UnixNano()))
		_, _ = d.Write(buf[:])
	case KindText:
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(v.str)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(v.str)
	default:
		_, _ = d.Write(buf[:1])
	}
}

// Hash returns the xxhash digest of v.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	v.WriteHash(d)
	return d.Sum64()
}

// Tuple is an ordered list of values used as a grouping, join or dedup key.
type Tuple []Value

// Hash returns a digest of every element in order.
func (t Tuple) Hash() uint64 {
	d := xxhash.New()
	for _, v := range t {
		v.WriteHash(d)
	}
	return d.Sum64()
}

// Equal reports element-wise key equality.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !Equal(t[i], o[i]) {
			return false
		}
	}
	return true
}

// Compare orders tuples lexicographically with Compare.
func (t Tuple) Compare(o Tuple) int {
	n := min(len(t), len(o))
	for i := range n {
		if c := Compare(t[i], o[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(t), len(o))
}

// String renders the tuple for error messages and test output.
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.GoString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
