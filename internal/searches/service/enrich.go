package service

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"time"

	"leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	// enrichmentCandidateCap bounds outbound fetches per run.
	enrichmentCandidateCap = 20
	enrichmentFetchTimeout = 5 * time.Second
	enrichmentMaxBodyBytes = 1 << 20
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// LeadPatcher applies the single post-persistence mutation a lead supports.
type LeadPatcher interface {
	PatchLeadEmail(ctx context.Context, searchID uuid.UUID, website, email string) error
}

// Enricher scans lead websites for a contact email after persistence. It is
// strictly best-effort: every failure, per candidate or whole, is swallowed
// and only logged. Enrichment can never fail a completed search.
type Enricher struct {
	httpClient *http.Client
	patcher    LeadPatcher
	log        *logger.Logger
}

func NewEnricher(patcher LeadPatcher, log *logger.Logger) *Enricher {
	return &Enricher{
		httpClient: &http.Client{Timeout: enrichmentFetchTimeout},
		patcher:    patcher,
		log:        log,
	}
}

// Enrich fetches the homepage of leads that have a website but no email yet,
// up to the candidate cap, and patches the first address found on the page.
func (e *Enricher) Enrich(ctx context.Context, searchID uuid.UUID, leads []repository.Lead) {
	candidates := make([]string, 0, enrichmentCandidateCap)
	for _, lead := range leads {
		if lead.Website == nil || lead.Email != nil {
			continue
		}
		candidates = append(candidates, *lead.Website)
		if len(candidates) == enrichmentCandidateCap {
			break
		}
	}

	if len(candidates) == 0 {
		return
	}

	patched := 0
	for _, website := range candidates {
		email, ok := e.fetchEmail(ctx, website)
		if !ok {
			continue
		}
		if err := e.patcher.PatchLeadEmail(ctx, searchID, website, email); err != nil {
			e.log.Warn("lead email patch failed", "search_id", searchID.String(), "website", website, "error", err.Error())
			continue
		}
		patched++
	}

	e.log.Info("email enrichment finished",
		"search_id", searchID.String(),
		"candidates", len(candidates),
		"patched", patched,
	)
}

func (e *Enricher) fetchEmail(ctx context.Context, website string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, website, nil)
	if err != nil {
		return "", false
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, enrichmentMaxBodyBytes))
	if err != nil {
		return "", false
	}

	match := emailPattern.FindString(string(body))
	if match == "" {
		return "", false
	}
	return match, true
}
