package validation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestParseHistoryItemAcceptsWellFormedItem(t *testing.T) {
	result := ParseHistoryItem(decode(t, `{"id":"x1","name":"Tokyo","country":"JP","lat":35.6,"lon":139.7,"timestamp":1700000000000,"state":"Tokyo"}`))

	if !result.Ok() {
		t.Fatalf("expected valid item, got reason %q", result.Reason)
	}
	if result.Item.ID != "x1" || result.Item.Lat != 35.6 || result.Item.State != "Tokyo" {
		t.Errorf("item = %+v", result.Item)
	}
	if result.Item.Timestamp != 1700000000000 {
		t.Errorf("timestamp = %d", result.Item.Timestamp)
	}
}

func TestParseHistoryItemRejectsMissingLat(t *testing.T) {
	result := ParseHistoryItem(decode(t, `{"id":"x1","name":"Tokyo","country":"JP","lon":139.7,"timestamp":1}`))

	if !result.Invalid() {
		t.Fatal("item without lat must be invalid")
	}
	if !strings.Contains(result.Reason, `"lat"`) {
		t.Errorf("reason %q should name the field", result.Reason)
	}
}

func TestParseHistoryItemRejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"numeric id":     `{"id":1,"name":"A","country":"B","lat":1,"lon":1,"timestamp":1}`,
		"string lat":     `{"id":"1","name":"A","country":"B","lat":"1","lon":1,"timestamp":1}`,
		"numeric state":  `{"id":"1","name":"A","country":"B","lat":1,"lon":1,"timestamp":1,"state":3}`,
		"array":          `[1,2]`,
		"null":           `null`,
		"missing fields": `{}`,
	}
	for name, raw := range cases {
		if IsValidHistoryItem(decode(t, raw)) {
			t.Errorf("%s: expected invalid", name)
		}
	}
}

func TestParseHistoryItemAllowsNullState(t *testing.T) {
	if !IsValidHistoryItem(decode(t, `{"id":"1","name":"A","country":"B","lat":1,"lon":1,"timestamp":1,"state":null}`)) {
		t.Error("a null state is treated as absent")
	}
}

func TestParseHistoryItemRejectsNaN(t *testing.T) {
	candidate := map[string]any{"id": "1", "name": "A", "country": "B", "lat": math.NaN(), "lon": 1.0, "timestamp": 1.0}
	if IsValidHistoryItem(candidate) {
		t.Error("NaN is not a number for persisted data")
	}
}

func TestParseThemeMode(t *testing.T) {
	for _, mode := range []string{"light", "dark", "system"} {
		if _, ok := ParseThemeMode(mode); !ok {
			t.Errorf("%s should be accepted", mode)
		}
	}
	for _, candidate := range []any{"auto", "", 1, nil} {
		if _, ok := ParseThemeMode(candidate); ok {
			t.Errorf("%v should be refused", candidate)
		}
	}
}
