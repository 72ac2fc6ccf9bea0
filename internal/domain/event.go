package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for event operations.
var (
	ErrEventNotFound = errors.New("event not found")
	// ErrEventClosed rejects attendance writes against a closed event.
	ErrEventClosed = errors.New("event is closed")
	// ErrEventNotEditable rejects field edits on a closed event.
	ErrEventNotEditable = errors.New("event is closed and cannot be updated")
	ErrEventAlreadyIn   = errors.New("event already in requested state")
	ErrDateNotFuture    = errors.New("event date must be in the future")
)

// EventStatus is the lifecycle state of an event. An OPEN event accepts
// attendance writes and field edits; a CLOSED event is a write-locked audit
// record whose only reversible transition is reopening.
type EventStatus string

const (
	EventOpen   EventStatus = "OPEN"
	EventClosed EventStatus = "CLOSED"
)

// Event is an attendance-taking occasion. A nil DomainID means the event is
// organization-wide rather than scoped to a single domain.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        time.Time   `json:"date"`
	Status      EventStatus `json:"status"`
	DomainID    *string     `json:"domain_id"`
	CreatedByID string      `json:"created_by_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// EventUpdate carries the mutable event fields for a partial update. Nil
// fields are left unchanged. DomainID distinguishes "not provided" (nil) from
// "set organization-wide" (*DomainID == nil).
type EventUpdate struct {
	Title    *string
	Date     *time.Time
	DomainID **string
}

// EventFilter narrows event listings. A DomainID entry of nil matches
// organization-wide events.
type EventFilter struct {
	DomainIDs []*string
	Unscoped  bool // true: no domain filtering (super admin)
	Status    *EventStatus
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListByDomainID(ctx context.Context, domainID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	SetStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
}

// EventService defines the event lifecycle operations.
type EventService interface {
	Create(ctx context.Context, actor *User, title string, date time.Time, domainID *string) (*Event, error)
	List(ctx context.Context, actor *User, status *EventStatus) ([]*Event, error)
	GetByID(ctx context.Context, actor *User, id string) (*Event, error)
	Update(ctx context.Context, actor *User, id string, update EventUpdate) (*Event, error)
	// Close transitions an OPEN event to CLOSED. Closing an already-closed
	// event is ErrEventAlreadyIn.
	Close(ctx context.Context, actor *User, id string) (*Event, error)
	// Open reopens a CLOSED event, the single escape hatch for correcting a
	// premature close.
	Open(ctx context.Context, actor *User, id string) (*Event, error)
}
