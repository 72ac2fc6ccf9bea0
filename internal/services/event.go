package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"societyattendance/internal/authz"
	"societyattendance/internal/domain"
)

type eventService struct {
	eventRepo  domain.EventRepository
	domainRepo domain.DomainRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, domainRepo domain.DomainRepository) domain.EventService {
	return &eventService{
		eventRepo:  eventRepo,
		domainRepo: domainRepo,
	}
}

func (s *eventService) Create(ctx context.Context, actor *domain.User, title string, date time.Time, domainID *string) (*domain.Event, error) {
	if d := authz.CanCreateEvent(actor, domainID); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	if !date.After(time.Now()) {
		return nil, domain.ErrDateNotFuture
	}
	domainID = authz.EventDomainForCreate(actor, domainID)
	if domainID != nil {
		if _, err := s.domainRepo.GetByID(ctx, *domainID); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	event := &domain.Event{
		Title:       title,
		Date:        date,
		Status:      domain.EventOpen,
		DomainID:    domainID,
		CreatedByID: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, actor *domain.User, status *domain.EventStatus) ([]*domain.Event, error) {
	filter := domain.EventFilter{Status: status}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		filter.Unscoped = true
	case domain.RoleAdmin:
		filter.DomainIDs = []*string{actor.DomainID}
	default:
		// Members see their own domain's events plus organization-wide ones.
		filter.DomainIDs = []*string{actor.DomainID, nil}
		if actor.DomainID == nil {
			filter.DomainIDs = []*string{nil}
		}
	}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewEvent(actor, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actor *domain.User, id string, update domain.EventUpdate) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanModifyEvent(actor, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	if event.Status == domain.EventClosed {
		return nil, domain.ErrEventNotEditable
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("event title cannot be empty: %w", domain.ErrInvalidInput)
		}
		event.Title = title
	}
	if update.Date != nil {
		if !update.Date.After(time.Now()) {
			return nil, domain.ErrDateNotFuture
		}
		event.Date = *update.Date
	}
	// Only super admins move events between domains; an admin's attempt is
	// dropped rather than rejected.
	if update.DomainID != nil && actor.Role == domain.RoleSuperAdmin {
		if *update.DomainID != nil {
			if _, err := s.domainRepo.GetByID(ctx, **update.DomainID); err != nil {
				return nil, err
			}
		}
		event.DomainID = *update.DomainID
	}
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Close(ctx context.Context, actor *domain.User, id string) (*domain.Event, error) {
	return s.setStatus(ctx, actor, id, domain.EventClosed)
}

func (s *eventService) Open(ctx context.Context, actor *domain.User, id string) (*domain.Event, error) {
	return s.setStatus(ctx, actor, id, domain.EventOpen)
}

func (s *eventService) setStatus(ctx context.Context, actor *domain.User, id string, status domain.EventStatus) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanModifyEvent(actor, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	if event.Status == status {
		return nil, domain.ErrEventAlreadyIn
	}
	return s.eventRepo.SetStatus(ctx, id, status)
}
