package table

import (
	"github.com/hashicorp/go-multierror"
	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
	"golang.org/x/exp/slices"
)

// Astype converts the named columns to the given kinds. In Strict mode
// every failing cell is reported, aggregated into one error, and no table
// is returned; in BestEffort mode failing cells become Null. Null and
// Missing cells are left as they are.
func (t *Table) Astype(types map[string]value.Kind, mode value.ConvertMode) (*Table, error) {
	cols := make([]string, 0, len(types))
	for c := range types {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	if err := validation.ValidateColumns(t, "Astype", cols...); err != nil {
		return nil, err
	}
	for _, c := range cols {
		switch types[c] {
		case value.KindNumber, value.KindText, value.KindBool, value.KindTimestamp:
		default:
			return nil, errors.NewInvalidArgumentError("Astype", "conversion target", types[c],
				"number", "text", "boolean", "timestamp")
		}
	}

	var result *multierror.Error
	out := t.mapRows(func(r *Row) {
		for _, c := range cols {
			v, ok := r.Lookup(c)
			if !ok {
				continue
			}
			conv, err := value.ConvertWithMode(v, types[c], mode)
			if err != nil {
				result = multierror.Append(result,
					errors.NewConversionError("Astype", c, v.GoString(), v.Kind().String(), types[c].String(), err))
				continue
			}
			r.Set(c, conv)
		}
	})
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
