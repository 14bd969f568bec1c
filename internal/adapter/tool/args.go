package tool

import (
	"encoding/json"
	"fmt"
	"math"
)

// Arguments arrive either as decoded JSON (float64) or straight from a
// provider SDK (int, int64, json.Number), so numeric reads accept all of them.

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

func numberArg(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", key, v)
	}
}

// intArg caps values above limit before converting, so huge numbers never
// overflow int.
func intArg(args map[string]any, key string, fallback, limit int) (int, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	f, err := numberArg(args, key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("argument %q must be an integer, got %v", key, f)
	}
	if f > float64(limit) {
		return limit, nil
	}
	return int(f), nil
}
