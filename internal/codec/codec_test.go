// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRoundTrip(t *testing.T) {
	cell, err := ToEntry(Text{}, "Artist_A")
	require.NoError(t, err)
	v, err := FromEntry(Text{}, cell)
	require.NoError(t, err)
	assert.Equal(t, "Artist_A", v)
}

func TestBoolRoundTrip(t *testing.T) {
	cell, err := ToEntry(Bool{}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cell)
	v, err := FromEntry(Bool{}, cell)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestDateTimeRoundTrip(t *testing.T) {
	cases := []struct {
		precision DateTimePrecision
		want      string
	}{
		{PrecisionDate, "2024-01-02"},
		{PrecisionSecond, "2024-01-02T03:04:05"},
		{PrecisionMicrosecond, "2024-01-02T03:04:05.123456"},
	}
	for _, c := range cases {
		tm, _ := time.Parse(DateTime{Precision: c.precision}.Precision.Layout(), c.want)
		cell, err := ToEntry(DateTime{Precision: c.precision}, tm)
		require.NoError(t, err)
		assert.Equal(t, c.want, cell)

		v, err := FromEntry(DateTime{Precision: c.precision}, cell)
		require.NoError(t, err)
		assert.True(t, tm.Equal(v.(time.Time)))
	}
}

func TestListRoundTrip(t *testing.T) {
	vals := []string{"a", "b", "c"}
	cell, err := ToEntry(ListOf{Elem: Text{}}, vals)
	require.NoError(t, err)
	assert.Equal(t, "|a||b||c|", cell)

	v, err := FromEntry(ListOf{Elem: Text{}}, cell)
	require.NoError(t, err)
	assert.Equal(t, vals, v)
}

func TestListEmpty(t *testing.T) {
	cell, err := ToEntry(ListOf{Elem: Text{}}, []string{})
	require.NoError(t, err)
	assert.Equal(t, "", cell)
	assert.Nil(t, ParseList(""))
}

func TestSetSortsCaseInsensitive(t *testing.T) {
	cell, err := ToEntry(SetOf{Elem: Text{}}, []string{"Zoo", "apple", "Banana"})
	require.NoError(t, err)
	assert.Equal(t, "|apple||Banana||Zoo|", cell)
}

func TestSetDeduplicatesCaseInsensitive(t *testing.T) {
	cell, err := ToEntry(SetOf{Elem: Text{}}, []string{"Bob", "bob"})
	require.NoError(t, err)
	assert.Equal(t, "|Bob|", cell)
}

func TestFormatListIdempotentOnCanonical(t *testing.T) {
	canonical := "|x||y|"
	parsed := ParseList(canonical)
	assert.Equal(t, canonical, FormatList(parsed))
}

func TestJSONRoundTrip(t *testing.T) {
	cell, err := ToEntry(JSON{}, map[string]interface{}{"a": float64(1)})
	require.NoError(t, err)
	v, err := FromEntry(JSON{}, cell)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, v)
}

func TestCustomKind(t *testing.T) {
	k := Custom{
		Name: "username",
		ToEntry: func(v interface{}) (interface{}, error) {
			return v.(string) + "!", nil
		},
		FromEntry: func(v interface{}) (interface{}, error) {
			return v, nil
		},
	}
	cell, err := ToEntry(k, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice!", cell)
}

type unknownKind struct{}

func (unknownKind) kind() {}

func TestUnknownKindRaisesTypeError(t *testing.T) {
	_, err := ToEntry(unknownKind{}, "x")
	require.Error(t, err)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}
