// Package value implements the dynamically-typed cell of a table: a tagged
// union over Number, Text, Boolean, Timestamp, Null and Missing.
//
// Missing is the zero Value and is what a Row hands back for a column it
// does not carry; Null is an explicit absent value written by a reader or
// an operation. The two compare unequal for key matching but are both
// treated as absent by numeric aggregation.
package value

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindTimestamp
	KindText
)

// TimestampLayout is the canonical textual form of a Timestamp.
const TimestampLayout = time.RFC3339Nano

var kindNames = [...]string{
	KindMissing:   "missing",
	KindNull:      "null",
	KindBool:      "boolean",
	KindNumber:    "number",
	KindTimestamp: "timestamp",
	KindText:      "text",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single table cell. The zero value is Missing.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// Number returns a Number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a Number value for an integer.
func Int(i int64) Value { return Value{kind: KindNumber, num: float64(i)} }

// Text returns a Text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Bool returns a Boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Timestamp returns a Timestamp value.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }

// Null returns an explicit Null.
func Null() Value { return Value{kind: KindNull} }

// Missing returns the Missing value.
func Missing() Value { return Value{} }

// Of converts a Go value into a Value. Integers and floats become Number,
// nil becomes Null. Unsupported types are an error.
func Of(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case string:
		return Text(v), nil
	case bool:
		return Bool(v), nil
	case time.Time:
		return Timestamp(v), nil
	case *time.Time:
		if v == nil {
			return Null(), nil
		}
		return Timestamp(*v), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// MustOf is Of for literals known to be supported; it panics otherwise.
func MustOf(x any) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is Missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNull reports whether v is Null or Missing.
func (v Value) IsNull() bool { return v.kind == KindNull || v.kind == KindMissing }

// IsNumber reports whether v is a Number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsNA reports whether v is Null, Missing or a NaN Number.
func (v Value) IsNA() bool {
	return v.IsNull() || (v.kind == KindNumber && math.IsNaN(v.num))
}

// Float returns the numeric payload and whether v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload and whether v is Text.
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.str, true
}

// Boolean returns the boolean payload and whether v is a Boolean.
func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.num != 0, true
}

// Time returns the timestamp payload and whether v is a Timestamp.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.ts, true
}

// Any returns the payload as a plain Go value (nil for Null and Missing).
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.str
	case KindBool:
		return v.num != 0
	case KindTimestamp:
		return v.ts
	default:
		return nil
	}
}

// String returns the canonical textual form. Null and Missing render as
// the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindTimestamp:
		return v.ts.UTC().Format(TimestampLayout)
	default:
		return ""
	}
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindMissing, KindNull:
		return v.kind.String()
	case KindText:
		return strconv.Quote(v.str)
	default:
		return v.kind.String() + "(" + v.String() + ")"
	}
}

// FormatNumber renders a float without exponent for integral values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
