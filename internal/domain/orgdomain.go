package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for domain operations.
var (
	ErrDomainNotFound  = errors.New("domain not found")
	ErrDuplicateDomain = errors.New("domain already exists")
	ErrDomainNotEmpty  = errors.New("domain has existing users or events")
)

// Domain is an organizational sub-group (a team or wing). Domains scope users
// and events for tenancy: an ADMIN only ever sees and mutates resources in
// their own domain.
// swagger:model Domain
type Domain struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DomainStats summarizes a domain's membership and event activity.
type DomainStats struct {
	TotalUsers   int `json:"totalUsers"`
	TotalEvents  int `json:"totalEvents"`
	OpenEvents   int `json:"openEvents"`
	ClosedEvents int `json:"closedEvents"`
	Admins       int `json:"admins"`
	Members      int `json:"members"`
}

// DomainDetail bundles a domain with its users, events, and stats.
type DomainDetail struct {
	Domain *Domain     `json:"domain"`
	Users  []*User     `json:"users"`
	Events []*Event    `json:"events"`
	Stats  DomainStats `json:"stats"`
}

// DomainSummary is a domain row with its member count, used by the
// super-admin members dashboard.
type DomainSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DomainRepository defines the interface for domain storage.
type DomainRepository interface {
	Create(ctx context.Context, d *Domain) error
	GetByID(ctx context.Context, id string) (*Domain, error)
	GetByName(ctx context.Context, name string) (*Domain, error)
	List(ctx context.Context) ([]*Domain, error)
	ListWithMemberCounts(ctx context.Context) ([]*DomainSummary, error)
	// CountOwned returns the number of users and events referencing the domain.
	CountOwned(ctx context.Context, id string) (users, events int, err error)
	Delete(ctx context.Context, id string) error
}

// DomainService defines business logic for managing domains.
type DomainService interface {
	Create(ctx context.Context, actor *User, name string) (*Domain, error)
	List(ctx context.Context) ([]*Domain, error)
	GetDetail(ctx context.Context, id string) (*DomainDetail, error)
	// Delete removes an empty domain. A domain that still owns users or
	// events is rejected with ErrDomainNotEmpty.
	Delete(ctx context.Context, actor *User, id string) error
}
