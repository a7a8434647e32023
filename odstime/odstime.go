// Package odstime converts instants into the ASAM ODS date representation.
//
// The ODS wire format for DT_DATE values and temporal attributes is a plain
// digit string: YYYYMMDDhhmmss followed by up to nine fractional-second
// digits with trailing zeros stripped. A value with no sub-second part has
// no fractional suffix at all.
package odstime

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// UnsupportedValueError is returned by Format for values that cannot be
// interpreted as an instant.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported time value %v (%T)", e.Value, e.Value)
}

// Format converts a value into the ODS date string.
//
// Supported inputs:
//   - time.Time (any location; formatted in its own location, sub-second
//     precision down to nanoseconds)
//   - integer or float Unix epoch seconds, interpreted in UTC
//
// Any other type returns UnsupportedValueError.
func Format(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t), nil
	case int:
		return FormatTime(time.Unix(int64(t), 0).UTC()), nil
	case int32:
		return FormatTime(time.Unix(int64(t), 0).UTC()), nil
	case int64:
		return FormatTime(time.Unix(t, 0).UTC()), nil
	case float32:
		return formatEpoch(float64(t)), nil
	case float64:
		return formatEpoch(t), nil
	default:
		return "", &UnsupportedValueError{Value: v}
	}
}

// FormatTime converts a time.Time into the ODS date string.
func FormatTime(t time.Time) string {
	base := t.Format("20060102150405")
	frac := fmt.Sprintf("%09d", t.Nanosecond())
	return base + strings.TrimRight(frac, "0")
}

// formatEpoch handles fractional Unix epoch seconds in UTC. The fraction
// is kept in [0, 1) so pre-epoch instants format correctly, and rounding
// that reaches a full second carries into the seconds field.
func formatEpoch(sec float64) string {
	whole, frac := math.Modf(sec)
	if frac < 0 {
		whole--
		frac++
	}
	ns := int64(math.Round(frac * 1e9))
	if ns >= 1e9 {
		whole++
		ns = 0
	}
	t := time.Unix(int64(whole), 0).UTC()
	base := t.Format("20060102150405")
	digits := fmt.Sprintf("%09d", ns)
	return base + strings.TrimRight(digits, "0")
}

// IsTemporal reports whether a value is date/time-like. Numeric values are
// never temporal even though Format would accept them as epoch seconds;
// the attribute encoder relies on this to keep numbers on their numeric
// encoding path.
func IsTemporal(v any) bool {
	_, ok := v.(time.Time)
	return ok
}
