// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	platformevents "leadpilot_backend/platform/events"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = platformevents.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// SearchCompleted is published when a search run reaches the completed state.
type SearchCompleted struct {
	BaseEvent
	SearchID  uuid.UUID `json:"searchId"`
	AccountID uuid.UUID `json:"accountId"`
	Mode      string    `json:"mode"`
	Leads     int       `json:"leads"`
}

func (e SearchCompleted) EventName() string { return "searches.search.completed" }

// SearchFailed is published when a search run reaches the failed state.
type SearchFailed struct {
	BaseEvent
	SearchID  uuid.UUID `json:"searchId"`
	AccountID uuid.UUID `json:"accountId"`
	Reason    string    `json:"reason"`
}

func (e SearchFailed) EventName() string { return "searches.search.failed" }

// AccountPlanChanged is published when an operator changes an account's plan.
type AccountPlanChanged struct {
	BaseEvent
	AccountID uuid.UUID `json:"accountId"`
	Plan      string    `json:"plan"`
}

func (e AccountPlanChanged) EventName() string { return "accounts.plan.changed" }
