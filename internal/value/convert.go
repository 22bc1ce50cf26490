package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/paveg/tabular/internal/errors"
)

// ConvertMode selects how a failed conversion is reported.
type ConvertMode int

const (
	// Strict fails the operation on values that cannot be converted.
	Strict ConvertMode = iota
	// BestEffort replaces values that cannot be converted with Null.
	BestEffort
)

// String returns the configuration name of the mode.
func (m ConvertMode) String() string {
	if m == BestEffort {
		return "best_effort"
	}
	return "strict"
}

// ParseConvertMode parses "strict" or "best_effort".
func ParseConvertMode(s string) (ConvertMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "best_effort", "best-effort", "besteffort":
		return BestEffort, nil
	default:
		return Strict, errors.NewInvalidArgumentError("ParseConvertMode", "convert mode", s, "strict", "best_effort")
	}
}

// ParseKind maps a conversion target name to a Kind. Only the concrete
// kinds Number, Text, Boolean and Timestamp are valid targets.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number", "float", "double", "int", "integer":
		return KindNumber, nil
	case "text", "string", "str":
		return KindText, nil
	case "bool", "boolean":
		return KindBool, nil
	case "timestamp", "time", "datetime", "date":
		return KindTimestamp, nil
	default:
		return KindMissing, errors.NewInvalidArgumentError("ParseKind", "conversion target", s, "number", "text", "boolean", "timestamp")
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the canonical layout and the common ISO variants.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ConversionFailure describes a value that could not be converted.
type ConversionFailure struct {
	Value Value
	From  Kind
	To    Kind
	Cause error
}

func (f *ConversionFailure) Error() string {
	msg := fmt.Sprintf("cannot convert %s from %s to %s", f.Value.GoString(), f.From, f.To)
	if f.Cause != nil {
		msg += ": " + f.Cause.Error()
	}
	return msg
}

func (f *ConversionFailure) Unwrap() error { return f.Cause }

// Convert converts v to the target kind. Null and Missing convert to
// themselves. A failure is returned as *ConversionFailure.
func Convert(v Value, to Kind) (Value, error) {
	if v.IsNull() || v.kind == to {
		return v, nil
	}
	fail := func(cause error) (Value, error) {
		return Value{}, &ConversionFailure{Value: v, From: v.kind, To: to, Cause: cause}
	}

	switch to {
	case KindText:
		return Text(v.String()), nil
	case KindNumber:
		switch v.kind {
		case KindBool:
			return Number(v.num), nil
		case KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
			if err != nil {
				return fail(err)
			}
			return Number(f), nil
		}
	case KindBool:
		switch v.kind {
		case KindNumber:
			if math.IsNaN(v.num) {
				return fail(nil)
			}
			return Bool(v.num != 0), nil
		case KindText:
			b, err := strconv.ParseBool(strings.TrimSpace(v.str))
			if err != nil {
				return fail(err)
			}
			return Bool(b), nil
		}
	case KindTimestamp:
		if v.kind == KindText {
			t, err := ParseTimestamp(v.str)
			if err != nil {
				return fail(err)
			}
			return Timestamp(t), nil
		}
	default:
		return fail(fmt.Errorf("%s is not a conversion target", to))
	}
	return fail(nil)
}

// ConvertWithMode applies Convert and, in BestEffort mode, swallows the
// failure by returning Null.
func ConvertWithMode(v Value, to Kind, mode ConvertMode) (Value, error) {
	out, err := Convert(v, to)
	if err != nil && mode == BestEffort {
		return Null(), nil
	}
	return out, err
}

// Infer parses a raw text cell the way readers do: empty is Null, then
// Number, Boolean and Timestamp are tried before falling back to Text.
// Spellings of NaN and infinity stay Text.
func Infer(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Null()
	}
	if looksNumeric(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Number(f)
		}
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if len(trimmed) >= len("2006-01-02") && trimmed[4] == '-' {
		if t, err := ParseTimestamp(trimmed); err == nil {
			return Timestamp(t)
		}
	}
	return Text(s)
}

func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// IsMissingLike extends IsNA with the textual placeholders that readers
// commonly leave behind: "", "null" and "nan" in any case.
func IsMissingLike(v Value) bool {
	if v.IsNA() {
		return true
	}
	if s, ok := v.Str(); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "null", "nan":
			return true
		}
	}
	return false
}
