package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel error for attendance operations.
var ErrAttendanceNotFound = errors.New("attendance record not found")

// AttendanceStatus is the recorded presence state for a (event, user) pair.
// This is a flat enum, not a sequential state machine: a privileged actor may
// set any value any number of times while the owning event is OPEN.
type AttendanceStatus string

const (
	StatusPresent       AttendanceStatus = "PRESENT"
	StatusAbsent        AttendanceStatus = "ABSENT"
	StatusExcused       AttendanceStatus = "EXCUSED"
	StatusNotApplicable AttendanceStatus = "NOT_APPLICABLE"
)

// Valid reports whether s is one of the known attendance statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused, StatusNotApplicable:
		return true
	}
	return false
}

// Attendance is the per-(event, user) presence record. At most one row exists
// per pair, enforced by a composite unique constraint; marks are upserts with
// last-write-wins semantics.
// swagger:model Attendance
type Attendance struct {
	ID         string           `json:"id"`
	EventID    string           `json:"event_id"`
	UserID     string           `json:"user_id"`
	Status     AttendanceStatus `json:"status"`
	MarkedByID string           `json:"marked_by_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// AttendanceStats is the per-status breakdown of a set of attendance rows.
type AttendanceStats struct {
	Total         int `json:"total"`
	Present       int `json:"present"`
	Absent        int `json:"absent"`
	Excused       int `json:"excused"`
	NotApplicable int `json:"notApplicable"`
}

// Applicable returns the count of rows that factor into the attendance
// percentage, i.e. everything except NOT_APPLICABLE.
func (s AttendanceStats) Applicable() int {
	return s.Total - s.NotApplicable
}

// Percentage returns present/applicable as a percentage rounded to two
// decimals. Zero applicable rows yield 0, not NaN.
func (s AttendanceStats) Percentage() float64 {
	applicable := s.Applicable()
	if applicable == 0 {
		return 0
	}
	pct := float64(s.Present) / float64(applicable) * 100
	return float64(int(pct*100+0.5)) / 100
}

// AttendanceFilter narrows attendance listings. Nil fields are ignored.
type AttendanceFilter struct {
	EventID       *string
	UserID        *string
	Status        *AttendanceStatus
	EventDomainID *string // scope to events belonging to this domain
}

// BulkMarkEntry is a single (user, status) pair within a bulk mark request.
type BulkMarkEntry struct {
	UserID string           `json:"userId"`
	Status AttendanceStatus `json:"status"`
}

// BulkMarkFailure reports one bulk-mark entry that could not be applied.
type BulkMarkFailure struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// BulkMarkResult reports the per-entry outcome of a bulk mark. Entries are
// applied independently; the batch is deliberately not a transaction.
type BulkMarkResult struct {
	Marked []*Attendance     `json:"marked"`
	Failed []BulkMarkFailure `json:"failed"`
}

// EventAttendance bundles an event with its attendance rows and counts.
type EventAttendance struct {
	Event       *Event          `json:"event"`
	Attendances []*Attendance   `json:"attendances"`
	Stats       AttendanceStats `json:"stats"`
}

// UserAttendanceStats is the aggregated attendance view for one user.
type UserAttendanceStats struct {
	User        *User           `json:"user"`
	Attendances []*Attendance   `json:"attendances"`
	Stats       AttendanceStats `json:"stats"`
	Percentage  float64         `json:"attendancePercentage"`
}

// AttendanceRepository defines the interface for attendance storage.
type AttendanceRepository interface {
	// Upsert creates the row for (EventID, UserID) or, if one exists,
	// overwrites its status and marker. Conflicting concurrent marks for the
	// same pair converge to last-write-wins on the unique constraint.
	Upsert(ctx context.Context, a *Attendance) error
	GetByID(ctx context.Context, id string) (*Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]*Attendance, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendance, error)
	ListByUserID(ctx context.Context, userID string) ([]*Attendance, error)
	UpdateStatus(ctx context.Context, id string, status AttendanceStatus, markedByID string) (*Attendance, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceService defines attendance marking and read-side aggregation.
type AttendanceService interface {
	Mark(ctx context.Context, actor *User, eventID, userID string, status AttendanceStatus) (*Attendance, error)
	BulkMark(ctx context.Context, actor *User, eventID string, entries []BulkMarkEntry) (*BulkMarkResult, error)
	List(ctx context.Context, actor *User, filter AttendanceFilter) ([]*Attendance, error)
	GetByID(ctx context.Context, actor *User, id string) (*Attendance, error)
	UpdateStatus(ctx context.Context, actor *User, id string, status AttendanceStatus) (*Attendance, error)
	Delete(ctx context.Context, actor *User, id string) error
	ForEvent(ctx context.Context, actor *User, eventID string) (*EventAttendance, error)
	StatsForUser(ctx context.Context, actor *User, userID string) (*UserAttendanceStats, error)
}
