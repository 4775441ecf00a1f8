package transport

import "time"

// Admin action names accepted by the action endpoint.
const (
	ActionListUsers   = "list_users"
	ActionSetPlan     = "set_plan"
	ActionSuspendUser = "suspend_user"
	ActionRestoreUser = "restore_user"
	ActionDeleteUser  = "delete_user"
)

// ActionRequest is the operator's dispatch envelope. Fields beyond Action
// are required only by the actions that consume them; Query and Limit apply
// to list_users only.
type ActionRequest struct {
	Action string `json:"action" validate:"required"`
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Plan   string `json:"plan" validate:"omitempty,alpha"`
	Query  string `json:"query" validate:"omitempty,max=200"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

// ActionResult acknowledges a state-changing action.
type ActionResult struct {
	Success bool `json:"success"`
}

// UserSummary is the operator-facing account shape.
type UserSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name"`
	Plan        string     `json:"plan"`
	LeadsUsed   int        `json:"leads_used"`
	LeadsLimit  int        `json:"leads_limit"`
	IsSuspended bool       `json:"is_suspended"`
	SuspendedAt *time.Time `json:"suspended_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListUsersResult wraps the account listing action.
type ListUsersResult struct {
	Users []UserSummary `json:"users"`
}
