package service

import (
	"math"
	"strings"

	"leadpilot_backend/internal/searches/repository"
)

// normalizeLeads converts raw provider items into lead records. Defensive by
// contract: every input item yields exactly one lead, and any field that is
// missing, mistyped, blank, or non-finite becomes null rather than dropping
// the record or failing the run.
func normalizeLeads(items []map[string]any) []repository.Lead {
	leads := make([]repository.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			item = map[string]any{}
		}

		var category any
		if categories, ok := item["categories"].([]any); ok && len(categories) > 0 {
			category = categories[0]
		}

		var lat, lng any
		if location, ok := item["location"].(map[string]any); ok {
			lat = location["lat"]
			lng = location["lng"]
		}

		leads = append(leads, repository.Lead{
			BusinessName: stringOrNil(item["title"]),
			Address:      stringOrNil(item["address"]),
			Phone:        stringOrNil(item["phone"]),
			Website:      stringOrNil(item["website"]),
			Email:        stringOrNil(item["email"]),
			Category:     stringOrNil(category),
			Rating:       floatOrNil(item["totalScore"]),
			ReviewsCount: intOrNil(item["reviewsCount"]),
			Latitude:     floatOrNil(lat),
			Longitude:    floatOrNil(lng),
		})
	}
	return leads
}

// stringOrNil keeps only strings with non-whitespace content.
func stringOrNil(value any) *string {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// floatOrNil keeps only finite numbers.
func floatOrNil(value any) *float64 {
	f, ok := value.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// intOrNil keeps only finite numbers, truncated to an integer count.
func intOrNil(value any) *int {
	f := floatOrNil(value)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
