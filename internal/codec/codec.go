// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ToEntry encodes an in-memory value into its on-disk cell representation
// according to kind. The returned value is either a string, int64, float64
// or nil — whatever the underlying driver should bind for that column.
func ToEntry(k Kind, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch t := k.(type) {
	case Text:
		return fmt.Sprintf("%v", value), nil
	case Int:
		return toInt64(value)
	case Float:
		return toFloat64(value)
	case Bool:
		b, err := toBool(value)
		if err != nil {
			return nil, err
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	case DateTime:
		tm, err := toTime(value)
		if err != nil {
			return nil, err
		}
		return tm.Format(t.Precision.Layout()), nil
	case ListOf:
		vals, err := toStringSlice(value)
		if err != nil {
			return nil, err
		}
		return FormatList(vals), nil
	case SetOf:
		vals, err := toStringSlice(value)
		if err != nil {
			return nil, err
		}
		return FormatSet(vals), nil
	case JSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("codec: encode json: %w", err)
		}
		return string(b), nil
	case Custom:
		return t.ToEntry(value)
	default:
		return nil, &TypeError{Kind: k}
	}
}

// FromEntry decodes a raw on-disk cell back into an in-memory value
// according to kind. cell is whatever database/sql returned for the
// column: typically string, int64, float64 or nil.
func FromEntry(k Kind, cell interface{}) (interface{}, error) {
	switch t := k.(type) {
	case Text:
		if cell == nil {
			return "", nil
		}
		return fmt.Sprintf("%v", cell), nil
	case Int:
		if cell == nil {
			return int64(0), nil
		}
		return toInt64(cell)
	case Float:
		if cell == nil {
			return float64(0), nil
		}
		return toFloat64(cell)
	case Bool:
		if cell == nil {
			return false, nil
		}
		n, err := toInt64(cell)
		if err != nil {
			return nil, err
		}
		return n != 0, nil
	case DateTime:
		if cell == nil {
			return time.Time{}, nil
		}
		s, ok := cell.(string)
		if !ok {
			if tm, ok := cell.(time.Time); ok {
				return tm, nil
			}
			return nil, fmt.Errorf("codec: datetime cell is %T, want string", cell)
		}
		tm, err := time.Parse(t.Precision.Layout(), s)
		if err != nil {
			return nil, fmt.Errorf("codec: parse datetime %q: %w", s, err)
		}
		return tm, nil
	case ListOf:
		if cell == nil {
			return []string(nil), nil
		}
		s, _ := cell.(string)
		return ParseList(s), nil
	case SetOf:
		if cell == nil {
			return []string(nil), nil
		}
		s, _ := cell.(string)
		return ParseSet(s), nil
	case JSON:
		if cell == nil {
			return nil, nil
		}
		s, ok := cell.(string)
		if !ok {
			return nil, fmt.Errorf("codec: json cell is %T, want string", cell)
		}
		var v interface{}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("codec: decode json: %w", err)
		}
		return v, nil
	case Custom:
		return t.FromEntry(cell)
	default:
		return nil, &TypeError{Kind: k}
	}
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("codec: parse int %q: %w", v, err)
		}
		return n, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("codec: cannot convert %T to int", value)
	}
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("codec: parse float %q: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("codec: cannot convert %T to float", value)
	}
}

func toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("codec: parse bool %q: %w", v, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("codec: cannot convert %T to bool", value)
	}
}

func toTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{
			DateTimePrecision(PrecisionMicrosecond).Layout(),
			DateTimePrecision(PrecisionSecond).Layout(),
			DateTimePrecision(PrecisionDate).Layout(),
			time.RFC3339,
		} {
			if tm, err := time.Parse(layout, v); err == nil {
				return tm, nil
			}
		}
		return time.Time{}, fmt.Errorf("codec: cannot parse datetime %q", v)
	default:
		return time.Time{}, fmt.Errorf("codec: cannot convert %T to time.Time", value)
	}
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("codec: cannot convert %T to []string", value)
	}
}
