package exdapi

import (
	"fmt"

	"github.com/exd-lab/exdbox-go/odstime"
)

// ContextVariables is the protocol's attribute map: named variables, each
// holding typed value arrays.
type ContextVariables map[string]*Variable

// Variable holds the typed arrays of one attribute. Attributes are
// append-only arrays, not overwritten scalars; a key may accumulate
// multiple values of its kind.
type Variable struct {
	BooleanArray []bool    `msgpack:"boolean_array,omitempty"`
	LongArray    []int64   `msgpack:"long_array,omitempty"`
	DoubleArray  []float64 `msgpack:"double_array,omitempty"`
	StringArray  []string  `msgpack:"string_array,omitempty"`
}

// UnassignableAttributeError reports a property value of a type the
// attribute model cannot carry.
type UnassignableAttributeError struct {
	Key   string
	Value any
}

func (e *UnassignableAttributeError) Error() string {
	return fmt.Sprintf("attribute %q: %v (%T) not assignable", e.Key, e.Value, e.Value)
}

// Apply folds a generic property map into a ContextVariables map.
//
// A nil value deletes the key (no-op when absent). Booleans, integers,
// floats and strings append to the matching typed array. Temporal values
// are formatted to the ODS date string and appended to the string array.
// Anything else returns UnassignableAttributeError naming the key.
func (cv ContextVariables) Apply(properties map[string]any) error {
	for key, value := range properties {
		if value == nil {
			delete(cv, key)
			continue
		}

		variable := cv[key]
		if variable == nil {
			variable = &Variable{}
		}

		switch v := value.(type) {
		case bool:
			variable.BooleanArray = append(variable.BooleanArray, v)
		case int:
			variable.LongArray = append(variable.LongArray, int64(v))
		case int32:
			variable.LongArray = append(variable.LongArray, int64(v))
		case int64:
			variable.LongArray = append(variable.LongArray, v)
		case float32:
			variable.DoubleArray = append(variable.DoubleArray, float64(v))
		case float64:
			variable.DoubleArray = append(variable.DoubleArray, v)
		case string:
			variable.StringArray = append(variable.StringArray, v)
		default:
			if odstime.IsTemporal(value) {
				formatted, err := odstime.Format(value)
				if err != nil {
					return fmt.Errorf("attribute %q: %w", key, err)
				}
				variable.StringArray = append(variable.StringArray, formatted)
				break
			}
			return &UnassignableAttributeError{Key: key, Value: value}
		}

		cv[key] = variable
	}
	return nil
}
