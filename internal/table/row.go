package table

import (
	"fmt"

	"github.com/paveg/tabular/internal/value"
)

// Row is an ordered mapping from column name to Value. Lookup is by name;
// iteration follows insertion order. The zero Row is empty and ready to use.
type Row struct {
	names []string
	vals  []value.Value
	pos   map[string]int
}

// NewRow builds a Row from alternating name, value pairs. Values go through
// value.Of, so plain Go literals are accepted.
func NewRow(pairs ...any) (*Row, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("NewRow: odd number of arguments (%d)", len(pairs))
	}
	r := &Row{}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("NewRow: argument %d is %T, want column name", i, pairs[i])
		}
		v, err := value.Of(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("NewRow: column %q: %w", name, err)
		}
		r.Set(name, v)
	}
	return r, nil
}

// MustRow is NewRow for literals; it panics on error.
func MustRow(pairs ...any) *Row {
	r, err := NewRow(pairs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of fields.
func (r *Row) Len() int { return len(r.names) }

// Get returns the value stored under name, or Missing.
func (r *Row) Get(name string) value.Value {
	if i, ok := r.pos[name]; ok {
		return r.vals[i]
	}
	return value.Missing()
}

// Lookup is Get with an explicit presence flag.
func (r *Row) Lookup(name string) (value.Value, bool) {
	i, ok := r.pos[name]
	if !ok {
		return value.Missing(), false
	}
	return r.vals[i], true
}

// Has reports whether the row carries name.
func (r *Row) Has(name string) bool {
	_, ok := r.pos[name]
	return ok
}

// Set stores v under name. An existing name keeps its position.
func (r *Row) Set(name string, v value.Value) *Row {
	if i, ok := r.pos[name]; ok {
		r.vals[i] = v
		return r
	}
	if r.pos == nil {
		r.pos = make(map[string]int)
	}
	r.pos[name] = len(r.names)
	r.names = append(r.names, name)
	r.vals = append(r.vals, v)
	return r
}

// Delete removes name if present.
func (r *Row) Delete(name string) {
	i, ok := r.pos[name]
	if !ok {
		return
	}
	r.names = append(r.names[:i], r.names[i+1:]...)
	r.vals = append(r.vals[:i], r.vals[i+1:]...)
	delete(r.pos, name)
	for j := i; j < len(r.names); j++ {
		r.pos[r.names[j]] = j
	}
}

// Columns returns the field names in order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.names...)
}

// Each calls fn for every field in order.
func (r *Row) Each(fn func(name string, v value.Value)) {
	for i, n := range r.names {
		fn(n, r.vals[i])
	}
}

// Clone returns a deep copy.
func (r *Row) Clone() *Row {
	c := &Row{
		names: append([]string(nil), r.names...),
		vals:  append([]value.Value(nil), r.vals...),
		pos:   make(map[string]int, len(r.names)),
	}
	for i, n := range c.names {
		c.pos[n] = i
	}
	return c
}

// merge copies every field of o into r; fields of o win.
func (r *Row) merge(o *Row) {
	for i, n := range o.names {
		r.Set(n, o.vals[i])
	}
}

// Equal reports whether both rows carry the same columns with key-equal
// values. Field order is ignored.
func (r *Row) Equal(o *Row) bool {
	if r.Len() != o.Len() {
		return false
	}
	for i, n := range r.names {
		ov, ok := o.Lookup(n)
		if !ok || !value.Equal(r.vals[i], ov) {
			return false
		}
	}
	return true
}

// Map returns the row as a plain Go map of Value.Any payloads.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, n := range r.names {
		m[n] = r.vals[i].Any()
	}
	return m
}

// String renders the row as {name: value, ...} in field order.
func (r *Row) String() string {
	s := "{"
	for i, n := range r.names {
		if i > 0 {
			s += ", "
		}
		s += n + ": " + r.vals[i].GoString()
	}
	return s + "}"
}
