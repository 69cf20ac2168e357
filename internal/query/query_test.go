// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValuePlainLikes(t *testing.T) {
	assert.Equal(t, "%abc%", FormatValue("abc", false, true))
}

func TestFormatValueAnchors(t *testing.T) {
	assert.Equal(t, "abc", FormatValue("^abc$", false, true))
	assert.Equal(t, "abc%", FormatValue("^abc", false, true))
	assert.Equal(t, "%abc", FormatValue("abc$", false, true))
}

func TestFormatValueQuotedEscapes(t *testing.T) {
	assert.Equal(t, "%ab\\%cd%", FormatValue("ab%cd", true, true))
}

func TestFormatValueNotLikes(t *testing.T) {
	assert.Equal(t, "draft 1", FormatValue("draft 1", true, false))
}

func TestParseSingleTermWithAlias(t *testing.T) {
	opts := Options{
		DefaultField: "author",
		Likes:        map[string]bool{"author": true},
		Aliases:      map[string]string{"author": "replace(lower(author),'_','')"},
	}
	frag, args, err := Parse("@author artist", opts)
	require.NoError(t, err)
	assert.Equal(t, "replace(lower(author),'_','') like ? escape '\\'", frag)
	assert.Equal(t, []interface{}{"%artist%"}, args)
}

func TestParseOrWithNegatedQuotedTerm(t *testing.T) {
	opts := Options{
		Likes:   map[string]bool{"author": true},
		Aliases: map[string]string{"author": "replace(lower(author),'_','')"},
	}
	frag, args, err := Parse(`@author alice | @title !"draft 1"`, opts)
	require.NoError(t, err)
	assert.Equal(t, `(replace(lower(author),'_','') like ? escape '\') or (title not like ? escape '\')`, frag)
	assert.Equal(t, []interface{}{"%alice%", "draft 1"}, args)
}

func TestParseImplicitAndByJuxtaposition(t *testing.T) {
	opts := Options{Likes: map[string]bool{"author": true, "title": true}}
	frag, args, err := Parse("@author alice @title fox", opts)
	require.NoError(t, err)
	assert.Equal(t, "(author like ? escape '\\') and (title like ? escape '\\')", frag)
	assert.Equal(t, []interface{}{"%alice%", "%fox%"}, args)
}

func TestParseParenGrouping(t *testing.T) {
	opts := Options{Likes: map[string]bool{"a": true, "b": true, "c": true}}
	frag, _, err := Parse("@a x & (@b y | @c z)", opts)
	require.NoError(t, err)
	assert.Equal(t, "(a like ? escape '\\') and ((b like ? escape '\\') or (c like ? escape '\\'))", frag)
}

func TestParseLeadingOperatorNoiseStripped(t *testing.T) {
	opts := Options{Likes: map[string]bool{"a": true}}
	frag, _, err := Parse("& @a x", opts)
	require.NoError(t, err)
	assert.Equal(t, "a like ? escape '\\'", frag)
}

func TestParseEmptyQueryErrors(t *testing.T) {
	_, _, err := Parse("   ", Options{})
	require.Error(t, err)
}

func TestParseUnterminatedParenErrors(t *testing.T) {
	_, _, err := Parse("@a (x", Options{})
	require.Error(t, err)
}
