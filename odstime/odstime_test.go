package odstime

import (
	"errors"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "date only midnight",
			in:   time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			want: "20230115000000",
		},
		{
			name: "full timestamp without fraction",
			in:   time.Date(2016, 12, 15, 22, 35, 21, 0, time.UTC),
			want: "20161215223521",
		},
		{
			name: "single significant fractional digit",
			in:   time.Date(2023, 1, 15, 10, 30, 45, 100_000_000, time.UTC),
			want: "202301151030451",
		},
		{
			name: "nanosecond precision",
			in:   time.Date(2023, 1, 15, 10, 30, 45, 123_456_789, time.UTC),
			want: "20230115103045123456789",
		},
		{
			name: "trailing zeros stripped",
			in:   time.Date(2023, 1, 15, 10, 30, 45, 123_450_000, time.UTC),
			want: "2023011510304512345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTime(tt.in)
			if got != tt.want {
				t.Errorf("FormatTime() = %q, want %q", got, tt.want)
			}
			if len(got) < 14 {
				t.Errorf("FormatTime() returned %d characters, want at least 14", len(got))
			}
		})
	}
}

func TestFormatEpoch(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "integer epoch seconds",
			in:   int64(1700000000), // 2023-11-14T22:13:20Z
			want: "20231114221320",
		},
		{
			name: "int epoch seconds",
			in:   0,
			want: "19700101000000",
		},
		{
			name: "fractional epoch seconds",
			in:   1700000000.25,
			want: "2023111422132025",
		},
		{
			// Rounding the fraction reaches a full second and must carry
			// into the seconds field instead of emitting ten digits.
			name: "fraction rounds up to next second",
			in:   1.9999999999,
			want: "19700101000002",
		},
		{
			name: "negative epoch with fraction",
			in:   -0.5,
			want: "196912312359595",
		},
		{
			name: "negative whole epoch",
			in:   -1.0,
			want: "19691231235959",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.in)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatUnsupported(t *testing.T) {
	_, err := Format(struct{}{})
	var unsupported *UnsupportedValueError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Format() error = %v, want UnsupportedValueError", err)
	}
}

func TestIsTemporal(t *testing.T) {
	if !IsTemporal(time.Now()) {
		t.Error("IsTemporal(time.Time) = false, want true")
	}

	// Numeric values could be epoch seconds but must stay numeric.
	for _, v := range []any{int64(1700000000), 3.14, 42, "20230115"} {
		if IsTemporal(v) {
			t.Errorf("IsTemporal(%T) = true, want false", v)
		}
	}
}
