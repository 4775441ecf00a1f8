package transport

import "time"

// AccountResponse is the caller-facing account shape.
type AccountResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name"`
	Plan        string     `json:"plan"`
	LeadsUsed   int        `json:"leads_used"`
	LeadsLimit  int        `json:"leads_limit"`
	IsSuspended bool       `json:"is_suspended"`
	SuspendedAt *time.Time `json:"suspended_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BootstrapRequest carries the optional profile fields sent on first login.
type BootstrapRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
}
