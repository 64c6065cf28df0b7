package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString_CanonicalForms(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{name: "nil_never_matches", in: nil, want: "", ok: false},
		{name: "string", in: "42", want: "42", ok: true},
		{name: "int64", in: int64(42), want: "42", ok: true},
		{name: "int", in: 42, want: "42", ok: true},
		{name: "whole_float_folds_to_int_form", in: float64(42), want: "42", ok: true},
		{name: "fractional_float", in: 42.5, want: "42.5", ok: true},
		{name: "bool_true", in: true, want: "1", ok: true},
		{name: "bool_false", in: false, want: "0", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyString(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// int64(7), float64(7), and "7" must identify the same entity: snapshots from
// different drivers disagree about numeric column types.
func TestKeyString_CrossTypeEquality(t *testing.T) {
	a, _ := KeyString(int64(7))
	b, _ := KeyString(float64(7))
	c, _ := KeyString("7")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestSelect_SkipsAbsentColumns(t *testing.T) {
	in := New("a", "b")
	in.Append(Record{"a": int64(1), "b": "x"})

	got := in.Select("a", "missing", "b")
	assert.Equal(t, []string{"a", "b"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, int64(1), got.Rows[0]["a"])
}

func TestRename_HeaderAndRows(t *testing.T) {
	in := New("old")
	in.Append(Record{"old": "v"})
	in.Rename("old", "new")

	assert.Equal(t, []string{"new"}, in.Columns)
	assert.Equal(t, "v", in.Rows[0]["new"])
	_, stillThere := in.Rows[0]["old"]
	assert.False(t, stillThere)
}

// Renaming a column to its own name must keep the values: set-then-delete on
// the same key would wipe them.
func TestRename_SameNameKeepsValues(t *testing.T) {
	in := New("member_name")
	in.Append(Record{"member_name": "Ada"})
	in.Rename("member_name", "member_name")

	assert.Equal(t, []string{"member_name"}, in.Columns)
	assert.Equal(t, "Ada", in.Rows[0]["member_name"])
}

func TestAddColumn_FillsOnlyMissing(t *testing.T) {
	in := New("a")
	in.Append(Record{"a": int64(1), "extra": "keep"})
	in.Append(Record{"a": int64(2)})
	in.AddColumn("extra", nil)

	assert.Equal(t, []string{"a", "extra"}, in.Columns)
	assert.Equal(t, "keep", in.Rows[0]["extra"])
	assert.Nil(t, in.Rows[1]["extra"])
}

func TestFillZero(t *testing.T) {
	in := New("n")
	in.Append(Record{"n": nil})
	in.Append(Record{"n": 3.5})
	in.FillZero("n", "absent_column")

	assert.Equal(t, float64(0), in.Rows[0]["n"])
	assert.Equal(t, 3.5, in.Rows[1]["n"])
}

func TestAsFloat(t *testing.T) {
	_, ok := AsFloat(nil)
	assert.False(t, ok)
	_, ok = AsFloat(time.Now())
	assert.False(t, ok)

	f, ok := AsFloat(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = AsFloat("2.5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
}
