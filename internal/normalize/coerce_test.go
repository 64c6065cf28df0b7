package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoerceInt_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{name: "nil_defaults_zero", in: nil, want: 0},
		{name: "int64_passthrough", in: int64(7), want: 7},
		{name: "float_truncates", in: 9.9, want: 9},
		{name: "numeric_string", in: "12", want: 12},
		{name: "float_string_truncates", in: "12.7", want: 12},
		{name: "padded_string", in: " 3 ", want: 3},
		{name: "garbage_defaults_zero", in: "twelve", want: 0},
		{name: "bool_flag", in: true, want: 1},
		{name: "unknown_type_defaults_zero", in: struct{}{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceInt(tt.in))
		})
	}
}

func TestCoerceFloat_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "nil_defaults_zero", in: nil, want: 0},
		{name: "float_kept_not_truncated", in: 87.5, want: 87.5},
		{name: "int_widens", in: int64(80), want: 80},
		{name: "numeric_string", in: "99.5", want: 99.5},
		{name: "garbage_defaults_zero", in: "n/a", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceFloat(tt.in))
		})
	}
}

func TestCoerceDate_Layouts(t *testing.T) {
	for _, in := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-01 10:00:00",
		"2026-03-01",
		"01.03.2026",
	} {
		got := coerceDate(in)
		tm, ok := got.(time.Time)
		assert.True(t, ok, "layout %q should parse", in)
		assert.Equal(t, 2026, tm.Year())
		assert.Equal(t, time.March, tm.Month())
	}
}

// Unparsable or absent date values become the nil sentinel; the row is
// retained either way.
func TestCoerceDate_Sentinel(t *testing.T) {
	assert.Nil(t, coerceDate(nil))
	assert.Nil(t, coerceDate(""))
	assert.Nil(t, coerceDate("not a date"))
	assert.Nil(t, coerceDate(time.Time{}))

	now := time.Now()
	assert.Equal(t, now, coerceDate(now))
	assert.Equal(t, now, coerceDate(&now))
}

func TestCoerceText(t *testing.T) {
	assert.Equal(t, "done", coerceText("done", "unknown"))
	assert.Equal(t, "unknown", coerceText(nil, "unknown"))
	assert.Nil(t, coerceText(nil, nil))
	assert.Equal(t, "3", coerceText(int64(3), nil))
}
