package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadpilot_backend/platform/logger"
)

func newTestClient(baseURL string) *Client {
	return New(baseURL, "test-token", "test~actor", 60, logger.New("test"))
}

func TestStartRunSendsQueryAndParsesEnvelope(t *testing.T) {
	var gotPath, gotQuery string
	var gotInput runInput

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"id":"run-1","defaultDatasetId":"ds-1","status":"SUCCEEDED"}}`))
	}))
	defer server.Close()

	run, err := newTestClient(server.URL).StartRun(context.Background(), "coffee shop in Amsterdam, Netherlands", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.ID != "run-1" || run.DatasetID != "ds-1" || run.Status != "SUCCEEDED" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !strings.Contains(gotPath, "test~actor") {
		t.Fatalf("expected actor id in path, got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "waitForFinish=60") || !strings.Contains(gotQuery, "token=test-token") {
		t.Fatalf("expected token and wait window in query, got %q", gotQuery)
	}
	if len(gotInput.SearchStrings) != 1 || gotInput.SearchStrings[0] != "coffee shop in Amsterdam, Netherlands" {
		t.Fatalf("unexpected search strings: %v", gotInput.SearchStrings)
	}
	if gotInput.MaxPlaces != 50 {
		t.Fatalf("expected max places 50, got %d", gotInput.MaxPlaces)
	}
}

func TestStartRunSurfacesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).StartRun(context.Background(), "q", 10)
	if err == nil {
		t.Fatal("expected an error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Error(), "rate limited") {
		t.Fatalf("expected provider body in error, got %q", statusErr.Error())
	}
}

func TestFetchDatasetDecodesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "ds-1") {
			t.Errorf("expected dataset id in path, got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"title":"Cafe Central","totalScore":4.5},{"title":"Bar Noord"}]`))
	}))
	defer server.Close()

	items, err := newTestClient(server.URL).FetchDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["title"] != "Cafe Central" {
		t.Fatalf("unexpected first item: %v", items[0])
	}
}

// An error envelope on a 2xx response resolves to zero items; the run still
// completes instead of failing on the decode.
func TestFetchDatasetTreatsNonArrayPayloadAsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"type":"dataset-expired"}}`))
	}))
	defer server.Close()

	items, err := newTestClient(server.URL).FetchDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestFetchDatasetRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title":`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchDataset(context.Background(), "ds-1"); err == nil {
		t.Fatal("expected a decode error")
	}
}
