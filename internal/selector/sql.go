// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package selector

import (
	"fmt"
	"strings"

	"github.com/tomtom215/repovault/internal/dberrors"
)

// ToSQL compiles node into a parameterised SQL fragment (no leading
// "WHERE") plus its bound values, in left-to-right argument order.
func ToSQL(n Node) (string, []interface{}, error) {
	switch t := n.(type) {
	case And:
		return foldBool(t.Of, "and")
	case Or:
		return foldBool(t.Of, "or")
	case Not:
		frag, args, err := ToSQL(t.Of)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("not (%s)", frag), args, nil
	case Eq:
		return fmt.Sprintf("%s = ?", t.Field), []interface{}{t.Value}, nil
	case Ne:
		return fmt.Sprintf("%s != ?", t.Field), []interface{}{t.Value}, nil
	case Gt:
		return fmt.Sprintf("%s > ?", t.Field), []interface{}{t.Value}, nil
	case Lt:
		return fmt.Sprintf("%s < ?", t.Field), []interface{}{t.Value}, nil
	case Ge:
		return fmt.Sprintf("%s >= ?", t.Field), []interface{}{t.Value}, nil
	case Le:
		return fmt.Sprintf("%s <= ?", t.Field), []interface{}{t.Value}, nil
	case In:
		placeholders := make([]string, len(t.Values))
		for i := range t.Values {
			placeholders[i] = "?"
		}
		return fmt.Sprintf("%s in (%s)", t.Field, strings.Join(placeholders, ",")), t.Values, nil
	case Instr:
		return fmt.Sprintf("instr(%s, ?)", t.Field), []interface{}{t.Value}, nil
	case Between:
		return fmt.Sprintf("%s between ? and ?", t.Field), []interface{}{t.Low, t.High}, nil
	case Like:
		return fmt.Sprintf("%s like ?", t.Field), []interface{}{t.Pattern}, nil
	case Glob:
		return fmt.Sprintf("%s glob ?", t.Field), []interface{}{t.Pattern}, nil
	default:
		return "", nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.ToSQL", "unknown selector node %T", n)
	}
}

func foldBool(children []Node, op string) (string, []interface{}, error) {
	if len(children) == 0 {
		return "1=1", nil, nil
	}
	frags := make([]string, 0, len(children))
	var args []interface{}
	for _, c := range children {
		frag, a, err := ToSQL(c)
		if err != nil {
			return "", nil, err
		}
		frags = append(frags, frag)
		args = append(args, a...)
	}
	return "(" + strings.Join(frags, " "+op+" ") + ")", args, nil
}
