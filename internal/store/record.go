package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row as the remote backend sees it: column name to raw
// driver value.
type Record map[string]any

// postgresTimestampLayout is how timestamptz values look when a driver
// hands them over as text.
const postgresTimestampLayout = "2006-01-02 15:04:05.999999999-07"

// value returns the value stored under the snake_case column name or, if
// absent, under its camelCase twin.
func (r Record) value(column string) (any, bool) {
	if v, ok := r[column]; ok {
		return v, true
	}
	v, ok := r[snakeToCamel(column)]
	return v, ok
}

func (r Record) str(column string) string {
	v, _ := r.value(column)
	return toString(v)
}

func (r Record) strPtr(column string) *string {
	v, ok := r.value(column)
	if !ok || v == nil {
		return nil
	}
	s := toString(v)
	return &s
}

func (r Record) integer(column string) int64 {
	v, _ := r.value(column)
	return toInt64(v)
}

func (r Record) timestamp(column string) time.Time {
	v, _ := r.value(column)
	return toTime(v)
}

// timestampPtr is nil only for a missing, NULL or empty value. A zero
// time that was stored stays a non-nil pointer.
func (r Record) timestampPtr(column string) *time.Time {
	v, ok := r.value(column)
	if !ok || v == nil || v == "" {
		return nil
	}
	t := toTime(v)
	return &t
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case json.Number:
		return parseInt64(n.String())
	case string:
		return parseInt64(n)
	case []byte:
		return parseInt64(string(n))
	default:
		return 0
	}
}

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t == nil {
			return time.Time{}
		}
		return *t
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	default:
		return time.Time{}
	}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, postgresTimestampLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullable turns a nil pointer into an untyped nil so the driver writes
// NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
