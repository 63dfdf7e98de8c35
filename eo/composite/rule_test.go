package composite

import (
	"net/url"
	"testing"
	"time"
)

func TestRuleEncodeValidation(t *testing.T) {
	rule := New()
	if _, err := rule.Encode(); err == nil {
		t.Fatalf("expected error when collection is missing")
	}

	rule.Collection = CollectionSentinel2SR
	rule.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := rule.Encode(); err == nil {
		t.Fatalf("expected error when start is set without end")
	}

	rule.End = rule.Start.Add(-time.Hour)
	if _, err := rule.Encode(); err == nil {
		t.Fatalf("expected error when start is after end")
	}

	rule.End = rule.Start.Add(time.Hour)
	rule.MaxCloudCover = 150
	if _, err := rule.Encode(); err == nil {
		t.Fatalf("expected error when max cloud cover exceeds 100")
	}
}

func TestRuleEncodeValues(t *testing.T) {
	rule := New()
	rule.Collection = CollectionLandsat8SR
	rule.Start = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	rule.End = time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	rule.Reducer = ReducerMedian
	rule.CloudMask = true
	rule.MaxCloudCover = 20
	rule.Add("custom", "value1")
	rule.Add("custom", "value2")

	got, err := rule.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := url.Values{
		"collection":    {"LANDSAT/LC08/C02/T1_L2"},
		"reducer":       {"median"},
		"startTime":     {"2023-01-01T10:00:00Z"},
		"endTime":       {"2023-06-01T10:00:00Z"},
		"cloudMask":     {"true"},
		"maxCloudCover": {"20"},
		"custom":        {"value1", "value2"},
	}

	if len(got) != len(want) {
		t.Fatalf("encoded values length mismatch: got %d want %d", len(got), len(want))
	}
	for key, wantVals := range want {
		gotVals := got[key]
		if len(gotVals) != len(wantVals) {
			t.Fatalf("key %s: got %v want %v", key, gotVals, wantVals)
		}
		for i := range wantVals {
			if gotVals[i] != wantVals[i] {
				t.Fatalf("key %s: got %v want %v", key, gotVals, wantVals)
			}
		}
	}
}

func TestRuleEncodeDefaults(t *testing.T) {
	rule := New()
	rule.Collection = CollectionSentinel2SR

	got, err := rule.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("reducer") != "mean" {
		t.Fatalf("expected default reducer mean, got %q", got.Get("reducer"))
	}
	if got.Has("cloudMask") {
		t.Fatalf("cloud mask should be omitted when disabled")
	}
	if got.Has("maxCloudCover") {
		t.Fatalf("max cloud cover should be omitted by default")
	}
}

func TestBuilder(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	rule := RuleBuilder().
		Collection(CollectionSentinel2SR).
		StartTime(start).
		EndTime(end).
		Reducer(ReducerMean).
		CloudMask().
		MaxCloudCover(35).
		Set("band", "B4").
		Build()

	if rule.Collection != CollectionSentinel2SR {
		t.Fatalf("unexpected collection: %s", rule.Collection)
	}
	if !rule.CloudMask {
		t.Fatalf("expected cloud mask enabled")
	}
	if rule.MaxCloudCover != 35 {
		t.Fatalf("unexpected max cloud cover: %v", rule.MaxCloudCover)
	}
	if got := rule.Additional["band"]; len(got) != 1 || got[0] != "B4" {
		t.Fatalf("unexpected additional values: %v", rule.Additional)
	}
}
