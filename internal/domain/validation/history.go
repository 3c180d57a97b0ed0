package validation

import (
	"fmt"
	"math"

	"weather-client/internal/domain/entity"
)

// HistoryItemResult is the outcome of parsing one persisted history record: either Item is
// set, or Reason says why the record was refused.
type HistoryItemResult struct {
	Item   *entity.SearchHistoryItem
	Reason string
}

func (r HistoryItemResult) Ok() bool { return r.Item != nil }

func (r HistoryItemResult) Invalid() bool { return r.Item == nil }

func valid(item entity.SearchHistoryItem) HistoryItemResult {
	return HistoryItemResult{Item: &item}
}

func invalid(format string, args ...any) HistoryItemResult {
	return HistoryItemResult{Reason: fmt.Sprintf(format, args...)}
}

// ParseHistoryItem checks a candidate decoded from untrusted JSON. The candidate must be an
// object whose id, name and country are strings and whose lat, lon and timestamp are numbers.
// An optional state must be a string when present.
func ParseHistoryItem(candidate any) HistoryItemResult {
	if candidate == nil {
		return invalid("item is null")
	}
	object, ok := candidate.(map[string]any)
	if !ok {
		return invalid("item is %T, not an object", candidate)
	}

	var item entity.SearchHistoryItem
	strings := []struct {
		field  string
		target *string
	}{{"id", &item.ID}, {"name", &item.Name}, {"country", &item.Country}}
	for _, f := range strings {
		value, ok := object[f.field].(string)
		if !ok {
			return invalid("field %q is %s, not a string", f.field, describe(object[f.field]))
		}
		*f.target = value
	}

	var timestamp float64
	numbers := []struct {
		field  string
		target *float64
	}{{"lat", &item.Lat}, {"lon", &item.Lon}, {"timestamp", &timestamp}}
	for _, f := range numbers {
		value, ok := number(object[f.field])
		if !ok {
			return invalid("field %q is %s, not a number", f.field, describe(object[f.field]))
		}
		*f.target = value
	}
	item.Timestamp = int64(timestamp)

	if raw, present := object["state"]; present && raw != nil {
		state, ok := raw.(string)
		if !ok {
			return invalid("field %q is %s, not a string", "state", describe(raw))
		}
		item.State = state
	}

	return valid(item)
}

// IsValidHistoryItem reports whether candidate would be admitted by ParseHistoryItem.
func IsValidHistoryItem(candidate any) bool {
	return ParseHistoryItem(candidate).Ok()
}

// number accepts the numeric types a JSON decoder may produce. NaN and infinities are not
// JSON numbers.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func describe(v any) string {
	if v == nil {
		return "missing"
	}
	return fmt.Sprintf("%T", v)
}
