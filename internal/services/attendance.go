package services

import (
	"context"
	"fmt"

	"societyattendance/internal/authz"
	"societyattendance/internal/domain"
)

type attendanceService struct {
	attendanceRepo domain.AttendanceRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
}

// NewAttendanceService creates an AttendanceService with the given repositories.
func NewAttendanceService(attendanceRepo domain.AttendanceRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository) domain.AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
	}
}

// checkWritable loads the event and verifies the actor may write attendance
// under it and that the event is still open.
func (s *attendanceService) checkWritable(ctx context.Context, actor *domain.User, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanWriteAttendance(actor, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	if event.Status == domain.EventClosed {
		return nil, domain.ErrEventClosed
	}
	return event, nil
}

func (s *attendanceService) Mark(ctx context.Context, actor *domain.User, eventID, userID string, status domain.AttendanceStatus) (*domain.Attendance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown attendance status %q: %w", status, domain.ErrInvalidInput)
	}
	if _, err := s.checkWritable(ctx, actor, eventID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	att := &domain.Attendance{
		EventID:    eventID,
		UserID:     userID,
		Status:     status,
		MarkedByID: actor.ID,
	}
	if err := s.attendanceRepo.Upsert(ctx, att); err != nil {
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return att, nil
}

// BulkMark applies each entry independently. A bad entry is reported in the
// result instead of aborting the batch, so a typo in one roll does not force
// an admin to re-enter fifty rows.
func (s *attendanceService) BulkMark(ctx context.Context, actor *domain.User, eventID string, entries []domain.BulkMarkEntry) (*domain.BulkMarkResult, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries provided: %w", domain.ErrInvalidInput)
	}
	if _, err := s.checkWritable(ctx, actor, eventID); err != nil {
		return nil, err
	}
	result := &domain.BulkMarkResult{}
	for _, entry := range entries {
		if !entry.Status.Valid() {
			result.Failed = append(result.Failed, domain.BulkMarkFailure{
				UserID: entry.UserID,
				Reason: fmt.Sprintf("unknown attendance status %q", entry.Status),
			})
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, entry.UserID); err != nil {
			result.Failed = append(result.Failed, domain.BulkMarkFailure{
				UserID: entry.UserID,
				Reason: "user not found",
			})
			continue
		}
		att := &domain.Attendance{
			EventID:    eventID,
			UserID:     entry.UserID,
			Status:     entry.Status,
			MarkedByID: actor.ID,
		}
		if err := s.attendanceRepo.Upsert(ctx, att); err != nil {
			result.Failed = append(result.Failed, domain.BulkMarkFailure{
				UserID: entry.UserID,
				Reason: "failed to store attendance",
			})
			continue
		}
		result.Marked = append(result.Marked, att)
	}
	return result, nil
}

func (s *attendanceService) List(ctx context.Context, actor *domain.User, filter domain.AttendanceFilter) ([]*domain.Attendance, error) {
	scope := authz.AttendanceListScope(actor)
	if scope.UserID != nil {
		filter.UserID = scope.UserID
	}
	if scope.DomainID != nil {
		filter.EventDomainID = scope.DomainID
	}
	attendances, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendances, nil
}

func (s *attendanceService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.Attendance, error) {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, att.EventID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewAttendance(actor, att, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	return att, nil
}

func (s *attendanceService) UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.AttendanceStatus) (*domain.Attendance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown attendance status %q: %w", status, domain.ErrInvalidInput)
	}
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkWritable(ctx, actor, att.EventID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.UpdateStatus(ctx, id, status, actor.ID)
}

func (s *attendanceService) Delete(ctx context.Context, actor *domain.User, id string) error {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.checkWritable(ctx, actor, att.EventID); err != nil {
		return err
	}
	return s.attendanceRepo.Delete(ctx, id)
}

func (s *attendanceService) ForEvent(ctx context.Context, actor *domain.User, eventID string) (*domain.EventAttendance, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewEvent(actor, event); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	attendances, err := s.attendanceRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event attendance: %w", err)
	}
	// A member sees only their own row within the event.
	if !actor.Role.IsPrivileged() {
		var own []*domain.Attendance
		for _, a := range attendances {
			if a.UserID == actor.ID {
				own = append(own, a)
			}
		}
		attendances = own
	}
	return &domain.EventAttendance{
		Event:       event,
		Attendances: attendances,
		Stats:       tallyStats(attendances),
	}, nil
}

func (s *attendanceService) StatsForUser(ctx context.Context, actor *domain.User, userID string) (*domain.UserAttendanceStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewUserStats(actor, user); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	attendances, err := s.attendanceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user attendance: %w", err)
	}
	stats := tallyStats(attendances)
	return &domain.UserAttendanceStats{
		User:        user,
		Attendances: attendances,
		Stats:       stats,
		Percentage:  stats.Percentage(),
	}, nil
}

func tallyStats(attendances []*domain.Attendance) domain.AttendanceStats {
	stats := domain.AttendanceStats{Total: len(attendances)}
	for _, a := range attendances {
		switch a.Status {
		case domain.StatusPresent:
			stats.Present++
		case domain.StatusAbsent:
			stats.Absent++
		case domain.StatusExcused:
			stats.Excused++
		case domain.StatusNotApplicable:
			stats.NotApplicable++
		}
	}
	return stats
}
