package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"societyattendance/internal/authz"
	"societyattendance/internal/domain"
)

type domainService struct {
	domainRepo domain.DomainRepository
	userRepo   domain.UserRepository
	eventRepo  domain.EventRepository
}

// NewDomainService creates a DomainService with the given repositories.
func NewDomainService(domainRepo domain.DomainRepository, userRepo domain.UserRepository, eventRepo domain.EventRepository) domain.DomainService {
	return &domainService{
		domainRepo: domainRepo,
		userRepo:   userRepo,
		eventRepo:  eventRepo,
	}
}

func (s *domainService) Create(ctx context.Context, actor *domain.User, name string) (*domain.Domain, error) {
	if d := authz.CanManageDomains(actor); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("domain name is required: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	dom := &domain.Domain{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.domainRepo.Create(ctx, dom); err != nil {
		return nil, err
	}
	return dom, nil
}

func (s *domainService) List(ctx context.Context) ([]*domain.Domain, error) {
	domains, err := s.domainRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

func (s *domainService) GetDetail(ctx context.Context, id string) (*domain.DomainDetail, error) {
	dom, err := s.domainRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByDomainID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list domain users: %w", err)
	}
	events, err := s.eventRepo.ListByDomainID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list domain events: %w", err)
	}

	stats := domain.DomainStats{
		TotalUsers:  len(users),
		TotalEvents: len(events),
	}
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			stats.Admins++
		case domain.RoleMember:
			stats.Members++
		}
	}
	for _, e := range events {
		if e.Status == domain.EventOpen {
			stats.OpenEvents++
		} else {
			stats.ClosedEvents++
		}
	}

	return &domain.DomainDetail{
		Domain: dom,
		Users:  users,
		Events: events,
		Stats:  stats,
	}, nil
}

// Delete removes a domain only when nothing references it. Reassigning or
// cascading owned users and events is deliberately left to the operator.
func (s *domainService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if d := authz.CanManageDomains(actor); !d.Allowed {
		return fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	if _, err := s.domainRepo.GetByID(ctx, id); err != nil {
		return err
	}
	users, events, err := s.domainRepo.CountOwned(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count domain references: %w", err)
	}
	if users > 0 || events > 0 {
		return domain.ErrDomainNotEmpty
	}
	return s.domainRepo.Delete(ctx, id)
}
