package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing date/time cells. Snapshots
// arrive from several upstream exports with inconsistent formats.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// coerceInt is parse-or-zero with integer truncation. Malformed values never
// fail; they become 0.
func coerceInt(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int64(x)
	case float32:
		return coerceInt(float64(x))
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return int64(f)
	case []byte:
		return coerceInt(string(x))
	default:
		return 0
	}
}

// coerceFloat is parse-or-zero, keeping the numeric domain (no truncation).
func coerceFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case float32:
		return coerceFloat(float64(x))
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case []byte:
		return coerceFloat(string(x))
	default:
		return 0
	}
}

// coerceDate parses to time.Time; unparsable or absent values become nil.
// The row is retained either way, never filtered.
func coerceDate(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		return *x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return nil
	case []byte:
		return coerceDate(string(x))
	default:
		return nil
	}
}

// coerceText coerces to string, substituting def for missing values. A nil
// def leaves missing values as nil.
func coerceText(v, def any) any {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
