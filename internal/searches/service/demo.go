package service

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"leadpilot_backend/internal/searches/repository"
)

// demoLeadCap bounds how many leads a demo run synthesizes regardless of the
// requested result count.
const demoLeadCap = 10

// demoLeads synthesizes placeholder results for runs without a provider
// token. Output is deterministic for a given search: the generator is seeded
// from the search id, so re-running the same search yields the same leads.
// Names embed the query terms verbatim so demo output is visibly tied to the
// search that produced it.
func demoLeads(search repository.Search) []repository.Lead {
	count := search.MaxResults
	if count > demoLeadCap {
		count = demoLeadCap
	}
	if count < 1 {
		count = 1
	}

	seed := int64(0)
	for _, b := range search.ID {
		seed = seed*31 + int64(b)
	}
	rng := rand.New(rand.NewSource(seed))

	keyword := strings.TrimSpace(search.Keyword)
	city := strings.TrimSpace(search.City)
	country := strings.TrimSpace(search.Country)

	leads := make([]repository.Lead, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %d - %s", keyword, i+1, city)
		address := fmt.Sprintf("Main Street %d, %s, %s", i+1, city, country)
		phone := fmt.Sprintf("+1 555 %04d", rng.Intn(10000))
		website := fmt.Sprintf("https://example%d.com", i+1)
		rating := math.Round((3.2+rng.Float64()*1.6)*10) / 10
		reviews := rng.Intn(500)

		leads = append(leads, repository.Lead{
			BusinessName: &name,
			Address:      &address,
			Phone:        &phone,
			Website:      &website,
			Category:     &keyword,
			Rating:       &rating,
			ReviewsCount: &reviews,
		})
	}
	return leads
}
