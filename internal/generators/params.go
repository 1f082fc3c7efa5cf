package generators

import (
	"errors"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/keys"
)

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return 0.0
	}
}

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	default:
		return 0
	}
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int64, float32, float64:
		return true
	default:
		return false
	}
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	raw, ok := params[name]
	if !ok {
		return "", fmt.Errorf("missing '%s' param", name)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("'%s' must be a non-empty string", name)
	}
	return s, nil
}

func optionalString(params map[string]interface{}, name, def string) (string, error) {
	if _, ok := params[name]; !ok {
		return def, nil
	}
	return stringParam(params, name)
}

func boolParam(params map[string]interface{}, name string) (bool, error) {
	raw, ok := params[name]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("'%s' must be a boolean", name)
	}
	return b, nil
}

func numberParam(params map[string]interface{}, name string, def float64) (float64, error) {
	raw, ok := params[name]
	if !ok {
		return def, nil
	}
	if !isNumber(raw) {
		return 0, fmt.Errorf("'%s' must be a number", name)
	}
	return toFloat64(raw), nil
}

func listParam(params map[string]interface{}, name string) ([]interface{}, error) {
	raw, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("missing '%s' param", name)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("'%s' must be a list", name)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("'%s' cannot be empty", name)
	}
	return list, nil
}

func stringMap(raw interface{}) (map[string]interface{}, bool) {
	switch m := raw.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// refParam reads {table, column} either from a nested map param or, when
// name is empty, from the top-level params.
func refParam(params map[string]interface{}, name string) (keys.Ref, error) {
	src := params
	if name != "" {
		raw, ok := params[name]
		if !ok {
			return keys.Ref{}, fmt.Errorf("missing '%s' param", name)
		}
		m, ok := stringMap(raw)
		if !ok {
			return keys.Ref{}, fmt.Errorf("'%s' must be a map with 'table' and 'column'", name)
		}
		src = m
	}
	table, err := stringParam(src, "table")
	if err != nil {
		return keys.Ref{}, prefixed(name, err)
	}
	column, err := stringParam(src, "column")
	if err != nil {
		return keys.Ref{}, prefixed(name, err)
	}
	return keys.Ref{Table: table, Column: column}, nil
}

func prefixed(name string, err error) error {
	if name == "" {
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

var errNoParams = errors.New("params are required")
