package stock

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseQuantity converts a loosely typed quantity into a number. Missing,
// blank, non-numeric and non-finite inputs become 0.
func ParseQuantity(v any) float64 {
	if n, ok := toFloat(v); ok {
		return n
	}
	return 0
}

// ParseThreshold converts a loosely typed minimum-stock value. Unlike
// ParseQuantity the fallback is nil, meaning "no threshold configured".
func ParseThreshold(v any) *float64 {
	if n, ok := toFloat(v); ok {
		return &n
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint:
		n = float64(t)
	case uint32:
		n = float64(t)
	case uint64:
		n = float64(t)
	case bool:
		if t {
			n = 1
		}
	case *float64:
		if t == nil {
			return 0, false
		}
		n = *t
	case json.Number:
		return parseString(string(t))
	case string:
		return parseString(t)
	default:
		return 0, false
	}
	return n, finite(n)
}

func parseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, finite(n)
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
