// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package query

import "strings"

// node is the query language's own small AST, kept separate from
// internal/selector.Node: the free-form infix syntax and the typed
// selector algebra are independent surfaces that happen to both compile
// to SQL.
type node interface {
	render(opts Options) (string, []interface{})
}

// wrapOperand parenthesizes a child's rendering whenever it is consumed
// as an operand of a boolean join — each joined clause reads as a
// self-contained "(...)" group.
func wrapOperand(n node, opts Options) (string, []interface{}) {
	frag, args := n.render(opts)
	return "(" + frag + ")", args
}

type andNode struct{ left, right node }

func (a andNode) render(opts Options) (string, []interface{}) {
	lf, la := wrapOperand(a.left, opts)
	rf, ra := wrapOperand(a.right, opts)
	return lf + " and " + rf, append(la, ra...)
}

type orNode struct{ left, right node }

func (o orNode) render(opts Options) (string, []interface{}) {
	lf, la := wrapOperand(o.left, opts)
	rf, ra := wrapOperand(o.right, opts)
	return lf + " or " + rf, append(la, ra...)
}

type notNode struct{ of node }

func (n notNode) render(opts Options) (string, []interface{}) {
	if term, ok := n.of.(*termNode); ok {
		return term.renderNegated(opts)
	}
	frag, args := wrapOperand(n.of, opts)
	return "not " + frag, args
}

// termNode is a single "@field value" leaf, scoped to the most recent
// @field seen during parsing (or Options.DefaultField if none yet).
type termNode struct {
	field  string
	text   string
	quoted bool
}

func (t *termNode) column(opts Options) string {
	key := strings.ToLower(t.field)
	if expr, ok := opts.Aliases[key]; ok {
		return expr
	}
	return t.field
}

func (t *termNode) likes(opts Options) bool {
	return opts.Likes[strings.ToLower(t.field)]
}

func (t *termNode) render(opts Options) (string, []interface{}) {
	value := FormatValue(t.text, t.quoted, t.likes(opts))
	frag := t.column(opts) + " like ? escape '\\'"
	return frag, []interface{}{value}
}

func (t *termNode) renderNegated(opts Options) (string, []interface{}) {
	value := FormatValue(t.text, t.quoted, t.likes(opts))
	frag := t.column(opts) + " not like ? escape '\\'"
	return frag, []interface{}{value}
}
