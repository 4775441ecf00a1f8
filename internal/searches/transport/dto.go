package transport

import "time"

// CreateSearchRequest defines a new search job. It is only recorded here;
// execution happens through the run endpoint.
type CreateSearchRequest struct {
	Keyword    string `json:"keyword" validate:"required,min=2,max=120"`
	City       string `json:"city" validate:"required,min=2,max=120"`
	Country    string `json:"country" validate:"required,min=2,max=120"`
	MaxResults int    `json:"max_results" validate:"required,min=1,max=500"`
}

// SearchResponse is the caller-facing search shape.
type SearchResponse struct {
	ID            string    `json:"id"`
	Keyword       string    `json:"keyword"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	MaxResults    int       `json:"max_results"`
	Status        string    `json:"status"`
	TotalResults  int       `json:"total_results"`
	ErrorMessage  *string   `json:"error_message"`
	ProviderRunID *string   `json:"provider_run_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RunResult summarizes a finished run for the caller.
type RunResult struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
	Leads   int    `json:"leads"`
}

// LeadResponse is the caller-facing lead shape.
type LeadResponse struct {
	ID           string   `json:"id"`
	BusinessName *string  `json:"business_name"`
	Address      *string  `json:"address"`
	Phone        *string  `json:"phone"`
	Website      *string  `json:"website"`
	Email        *string  `json:"email"`
	Category     *string  `json:"category"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}
