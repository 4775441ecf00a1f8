package service

import (
	"math"
	"testing"
)

func TestNormalizeLeadsKeepsEveryRecord(t *testing.T) {
	items := []map[string]any{
		{"title": "Cafe Central", "address": "Main St 1"},
		nil,
		{},
		{"title": 42, "phone": true},
	}

	leads := normalizeLeads(items)
	if len(leads) != len(items) {
		t.Fatalf("expected %d leads, got %d", len(items), len(leads))
	}
}

func TestNormalizeLeadsStringFields(t *testing.T) {
	items := []map[string]any{
		{"title": "Cafe Central"},
		{"title": ""},
		{"title": "   "},
		{"title": 42},
		{"title": nil},
	}

	leads := normalizeLeads(items)

	if leads[0].BusinessName == nil || *leads[0].BusinessName != "Cafe Central" {
		t.Fatalf("expected business name kept, got %v", leads[0].BusinessName)
	}
	for i := 1; i < len(leads); i++ {
		if leads[i].BusinessName != nil {
			t.Errorf("item %d: expected nil business name, got %q", i, *leads[i].BusinessName)
		}
	}
}

func TestNormalizeLeadsNumericFields(t *testing.T) {
	items := []map[string]any{
		{"totalScore": 4.5, "reviewsCount": 120.0},
		{"totalScore": math.NaN()},
		{"totalScore": math.Inf(1)},
		{"totalScore": "4.5", "reviewsCount": "many"},
	}

	leads := normalizeLeads(items)

	if leads[0].Rating == nil || *leads[0].Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", leads[0].Rating)
	}
	if leads[0].ReviewsCount == nil || *leads[0].ReviewsCount != 120 {
		t.Fatalf("expected 120 reviews, got %v", leads[0].ReviewsCount)
	}
	for i := 1; i < len(leads); i++ {
		if leads[i].Rating != nil {
			t.Errorf("item %d: expected nil rating, got %v", i, *leads[i].Rating)
		}
	}
	if leads[3].ReviewsCount != nil {
		t.Errorf("expected nil reviews count for string input, got %v", *leads[3].ReviewsCount)
	}
}

func TestNormalizeLeadsLocationAndCategory(t *testing.T) {
	items := []map[string]any{
		{
			"location":   map[string]any{"lat": 52.37, "lng": 4.89},
			"categories": []any{"restaurant", "bar"},
		},
		{
			"location":   "not an object",
			"categories": []any{},
		},
		{
			"location":   map[string]any{"lat": "north"},
			"categories": []any{7},
		},
	}

	leads := normalizeLeads(items)

	if leads[0].Latitude == nil || *leads[0].Latitude != 52.37 {
		t.Fatalf("expected latitude 52.37, got %v", leads[0].Latitude)
	}
	if leads[0].Longitude == nil || *leads[0].Longitude != 4.89 {
		t.Fatalf("expected longitude 4.89, got %v", leads[0].Longitude)
	}
	if leads[0].Category == nil || *leads[0].Category != "restaurant" {
		t.Fatalf("expected first category kept, got %v", leads[0].Category)
	}

	if leads[1].Latitude != nil || leads[1].Category != nil {
		t.Fatal("expected nil location and category for malformed inputs")
	}
	if leads[2].Latitude != nil || leads[2].Category != nil {
		t.Fatal("expected nil for wrongly typed location and category values")
	}
}

func TestNormalizeLeadsIsDeterministic(t *testing.T) {
	items := []map[string]any{
		{"title": "Cafe Central", "totalScore": 4.5, "website": "https://cafe.example"},
	}

	first := normalizeLeads(items)
	second := normalizeLeads(items)

	if *first[0].BusinessName != *second[0].BusinessName ||
		*first[0].Rating != *second[0].Rating ||
		*first[0].Website != *second[0].Website {
		t.Fatal("expected identical output for identical input")
	}
}
