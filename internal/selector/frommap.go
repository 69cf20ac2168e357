// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package selector

import (
	"fmt"
	"strings"

	"github.com/tomtom215/repovault/internal/dberrors"
)

// FromMap builds a Node from the untyped tagged-tree shape — a
// single-key map whose key is one of the closed set of operator
// tokens. This is the boundary for callers that compose
// selectors dynamically (e.g. from decoded JSON) rather than constructing
// Node values directly in Go. Unknown operator keys raise UnknownSelector.
func FromMap(m map[string]interface{}) (Node, error) {
	if len(m) != 1 {
		return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "selector map must have exactly one key, got %d", len(m))
	}
	for op, raw := range m {
		switch strings.ToUpper(op) {
		case "AND":
			return foldFromMap(raw, func(of []Node) Node { return And{Of: of} })
		case "OR":
			return foldFromMap(raw, func(of []Node) Node { return Or{Of: of} })
		case "NOT":
			child, ok := raw.(map[string]interface{})
			if !ok {
				return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "NOT requires a single selector map")
			}
			node, err := FromMap(child)
			if err != nil {
				return nil, err
			}
			return Not{Of: node}, nil
		case "EQ", "NE", "GT", "LT", "GE", "LE":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			return comparisonNode(strings.ToUpper(op), field, value), nil
		case "IN":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			values, ok := value.([]interface{})
			if !ok {
				return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "IN requires a list of values for %q", field)
			}
			return In{Field: field, Values: values}, nil
		case "INSTR":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			s, _ := value.(string)
			return Instr{Field: field, Value: s}, nil
		case "BETWEEN":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			values, ok := value.([]interface{})
			if !ok || len(values) < 2 {
				return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "BETWEEN requires [low, high] for %q", field)
			}
			return Between{Field: field, Low: values[0], High: values[1]}, nil
		case "LIKE":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			s, _ := value.(string)
			return Like{Field: field, Pattern: s}, nil
		case "GLOB":
			field, value, err := singleField(raw)
			if err != nil {
				return nil, err
			}
			s, _ := value.(string)
			return Glob{Field: field, Pattern: s}, nil
		default:
			return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "unknown selector operator %q", op)
		}
	}
	panic("unreachable")
}

func comparisonNode(op, field string, value interface{}) Node {
	switch op {
	case "EQ":
		return Eq{Field: field, Value: value}
	case "NE":
		return Ne{Field: field, Value: value}
	case "GT":
		return Gt{Field: field, Value: value}
	case "LT":
		return Lt{Field: field, Value: value}
	case "GE":
		return Ge{Field: field, Value: value}
	default: // "LE"
		return Le{Field: field, Value: value}
	}
}

func singleField(raw interface{}) (string, interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok || len(m) != 1 {
		return "", nil, dberrors.Wrap(dberrors.KindUnknownSelector, "selector.FromMap", "expected a single {field: value} map, got %T", raw)
	}
	for field, value := range m {
		return field, value, nil
	}
	panic("unreachable")
}

func foldFromMap(raw interface{}, build func([]Node) Node) (Node, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("selector.FromMap: expected a list of selector maps, got %T", raw)
	}
	nodes := make([]Node, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("selector.FromMap: expected a selector map in list, got %T", item)
		}
		node, err := FromMap(m)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return build(nodes), nil
}
