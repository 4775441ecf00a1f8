package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadpilot_backend/internal/searches/repository"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

type fakePatcher struct {
	patches map[string]string
	err     error
}

func (f *fakePatcher) PatchLeadEmail(_ context.Context, _ uuid.UUID, website, email string) error {
	if f.err != nil {
		return f.err
	}
	if f.patches == nil {
		f.patches = map[string]string{}
	}
	f.patches[website] = email
	return nil
}

func leadWithWebsite(website string) repository.Lead {
	return repository.Lead{Website: &website}
}

func TestEnrichPatchesFirstEmailOnPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Contact us at info@cafe.example or sales@cafe.example</body></html>`))
	}))
	defer server.Close()

	patcher := &fakePatcher{}
	enricher := NewEnricher(patcher, logger.New("test"))

	enricher.Enrich(context.Background(), uuid.New(), []repository.Lead{leadWithWebsite(server.URL)})

	if got := patcher.patches[server.URL]; got != "info@cafe.example" {
		t.Fatalf("expected first email on the page, got %q", got)
	}
}

func TestEnrichSkipsPagesWithoutEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>No contact details here</body></html>`))
	}))
	defer server.Close()

	patcher := &fakePatcher{}
	enricher := NewEnricher(patcher, logger.New("test"))

	enricher.Enrich(context.Background(), uuid.New(), []repository.Lead{leadWithWebsite(server.URL)})

	if len(patcher.patches) != 0 {
		t.Fatalf("expected no patches, got %v", patcher.patches)
	}
}

func TestEnrichSkipsErrorResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone@forever.example", http.StatusGone)
	}))
	defer server.Close()

	patcher := &fakePatcher{}
	enricher := NewEnricher(patcher, logger.New("test"))

	enricher.Enrich(context.Background(), uuid.New(), []repository.Lead{leadWithWebsite(server.URL)})

	if len(patcher.patches) != 0 {
		t.Fatal("non-2xx responses must not produce patches")
	}
}

func TestEnrichIgnoresLeadsWithEmailOrWithoutWebsite(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("info@cafe.example"))
	}))
	defer server.Close()

	existing := "already@known.example"
	url := server.URL
	leads := []repository.Lead{
		{Website: &url, Email: &existing},
		{Email: &existing},
		{},
	}

	enricher := NewEnricher(&fakePatcher{}, logger.New("test"))
	enricher.Enrich(context.Background(), uuid.New(), leads)

	if requests != 0 {
		t.Fatalf("expected no fetches, got %d", requests)
	}
}

func TestEnrichCapsCandidates(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("none here"))
	}))
	defer server.Close()

	leads := make([]repository.Lead, 0, 30)
	for i := 0; i < 30; i++ {
		leads = append(leads, leadWithWebsite(server.URL))
	}

	enricher := NewEnricher(&fakePatcher{}, logger.New("test"))
	enricher.Enrich(context.Background(), uuid.New(), leads)

	if requests != enrichmentCandidateCap {
		t.Fatalf("expected %d fetches, got %d", enrichmentCandidateCap, requests)
	}
}

func TestEnrichSwallowsPatchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("info@cafe.example"))
	}))
	defer server.Close()

	patcher := &fakePatcher{err: context.DeadlineExceeded}
	enricher := NewEnricher(patcher, logger.New("test"))

	// Must not panic or propagate; enrichment is best-effort.
	enricher.Enrich(context.Background(), uuid.New(), []repository.Lead{leadWithWebsite(server.URL)})
}
