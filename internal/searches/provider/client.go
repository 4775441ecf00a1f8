// Package provider wraps the external places-scraping API. Runs are started
// synchronously: the start call blocks server-side until the run finishes or
// the wait window elapses.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"leadpilot_backend/platform/logger"
)

// maxBodyBytes caps how much of a provider response is read into memory.
const maxBodyBytes = 32 << 20

type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	actorID     string
	waitSeconds int
	log         *logger.Logger
}

// Run is the provider's run descriptor. DatasetID may be empty when the run
// produced no dataset.
type Run struct {
	ID        string
	DatasetID string
	Status    string
}

// StatusError is a non-2xx provider response, body included so the caller can
// surface the provider's own diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider error [%d]: %s", e.StatusCode, e.Body)
}

func New(baseURL, token, actorID string, waitSeconds int, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			// The start call holds the connection open for the whole
			// synchronous wait window.
			Timeout: time.Duration(waitSeconds+30) * time.Second,
		},
		baseURL:     baseURL,
		token:       token,
		actorID:     actorID,
		waitSeconds: waitSeconds,
		log:         log,
	}
}

type runInput struct {
	SearchStrings []string `json:"searchStringsArray"`
	MaxPlaces     int      `json:"maxCrawledPlacesPerSearch"`
	Language      string   `json:"language"`

	// Costly actor features stay off; only place listings are needed.
	ExportPlaceURLs         bool `json:"exportPlaceUrls"`
	IncludeHistogram        bool `json:"includeHistogram"`
	IncludeOpeningHours     bool `json:"includeOpeningHours"`
	IncludePeopleAlsoSearch bool `json:"includePeopleAlsoSearch"`
}

type runEnvelope struct {
	Data struct {
		ID               string `json:"id"`
		DefaultDatasetID string `json:"defaultDatasetId"`
		Status           string `json:"status"`
	} `json:"data"`
}

// StartRun launches a scraping run for the query and waits for it to finish.
func (c *Client) StartRun(ctx context.Context, query string, maxResults int) (Run, error) {
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s&waitForFinish=%d",
		c.baseURL, url.PathEscape(c.actorID), url.QueryEscape(c.token), c.waitSeconds)

	payload, err := json.Marshal(runInput{
		SearchStrings: []string{query},
		MaxPlaces:     maxResults,
		Language:      "en",
	})
	if err != nil {
		return Run{}, fmt.Errorf("encoding run input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Run{}, fmt.Errorf("building run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("starting provider run", "actor_id", c.actorID, "max_results", maxResults)

	body, err := c.do(req)
	if err != nil {
		return Run{}, err
	}

	var envelope runEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Run{}, fmt.Errorf("decoding run response: %w", err)
	}

	return Run{
		ID:        envelope.Data.ID,
		DatasetID: envelope.Data.DefaultDatasetID,
		Status:    envelope.Data.Status,
	}, nil
}

// FetchDataset downloads the raw result items of a finished run.
func (c *Client) FetchDataset(ctx context.Context, datasetID string) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json",
		c.baseURL, url.PathEscape(datasetID), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building dataset request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding dataset items: %w", err)
	}

	// A non-array payload (an error envelope, usually) counts as an empty
	// result set rather than a failed run.
	raw, _ := payload.([]any)
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		item, _ := entry.(map[string]any)
		items = append(items, item)
	}

	c.log.Info("fetched provider dataset", "dataset_id", datasetID, "items", strconv.Itoa(len(items)))
	return items, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
