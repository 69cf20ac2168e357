// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/repovault/internal/dberrors"
)

func TestToSQLComparisonOps(t *testing.T) {
	frag, args, err := ToSQL(Eq{Field: "AUTHOR", Value: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "AUTHOR = ?", frag)
	assert.Equal(t, []interface{}{"alice"}, args)
}

func TestToSQLAndOr(t *testing.T) {
	frag, args, err := ToSQL(And{Of: []Node{
		Eq{Field: "AUTHOR", Value: "alice"},
		Gt{Field: "ID", Value: 5},
	}})
	require.NoError(t, err)
	assert.Equal(t, "(AUTHOR = ? and ID > ?)", frag)
	assert.Equal(t, []interface{}{"alice", 5}, args)
}

func TestToSQLNot(t *testing.T) {
	frag, _, err := ToSQL(Not{Of: Eq{Field: "ACTIVE", Value: true}})
	require.NoError(t, err)
	assert.Equal(t, "not (ACTIVE = ?)", frag)
}

func TestToSQLIn(t *testing.T) {
	frag, args, err := ToSQL(In{Field: "ID", Values: []interface{}{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, "ID in (?,?,?)", frag)
	assert.Equal(t, []interface{}{1, 2, 3}, args)
}

func TestToSQLBetween(t *testing.T) {
	frag, args, err := ToSQL(Between{Field: "DATE", Low: "2024-01-01", High: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, "DATE between ? and ?", frag)
	assert.Equal(t, []interface{}{"2024-01-01", "2024-12-31"}, args)
}

func TestToSQLLikeGlob(t *testing.T) {
	frag, args, err := ToSQL(Like{Field: "TITLE", Pattern: "%cat%"})
	require.NoError(t, err)
	assert.Equal(t, "TITLE like ?", frag)
	assert.Equal(t, []interface{}{"%cat%"}, args)

	frag, _, err = ToSQL(Glob{Field: "TITLE", Pattern: "cat*"})
	require.NoError(t, err)
	assert.Equal(t, "TITLE glob ?", frag)
}

func TestToSQLInstr(t *testing.T) {
	frag, args, err := ToSQL(Instr{Field: "DESCRIPTION", Value: "fox"})
	require.NoError(t, err)
	assert.Equal(t, "instr(DESCRIPTION, ?)", frag)
	assert.Equal(t, []interface{}{"fox"}, args)
}

type bogusNode struct{}

func (bogusNode) node() {}

func TestToSQLUnknownSelector(t *testing.T) {
	_, _, err := ToSQL(bogusNode{})
	require.Error(t, err)
	var e *dberrors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, dberrors.KindUnknownSelector, e.Kind)
}

func TestFromMapUnknownOperator(t *testing.T) {
	_, err := FromMap(map[string]interface{}{"XOR": map[string]interface{}{"A": 1}})
	require.Error(t, err)
}

func TestFromMapRoundTrip(t *testing.T) {
	node, err := FromMap(map[string]interface{}{
		"AND": []interface{}{
			map[string]interface{}{"EQ": map[string]interface{}{"AUTHOR": "alice"}},
			map[string]interface{}{"IN": map[string]interface{}{"ID": []interface{}{1, 2}}},
		},
	})
	require.NoError(t, err)
	frag, args, err := ToSQL(node)
	require.NoError(t, err)
	assert.Equal(t, "(AUTHOR = ? and ID in (?,?))", frag)
	assert.Equal(t, []interface{}{"alice", 1, 2}, args)
}
