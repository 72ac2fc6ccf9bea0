package controllers

import (
	"errors"

	"societyattendance/internal/domain"
)

// isClientError reports whether err maps to a 4xx response. Anything else is
// an internal failure worth a server-side log line.
func isClientError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidInput,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrRateLimited,
		domain.ErrUserNotFound,
		domain.ErrDomainNotFound,
		domain.ErrEventNotFound,
		domain.ErrAttendanceNotFound,
		domain.ErrDuplicateEmail,
		domain.ErrDuplicateRoll,
		domain.ErrDuplicateDomain,
		domain.ErrDomainNotEmpty,
		domain.ErrEventClosed,
		domain.ErrEventNotEditable,
		domain.ErrEventAlreadyIn,
		domain.ErrDateNotFuture,
		domain.ErrOtpInvalid,
		domain.ErrOtpExpired,
		domain.ErrOtpNotVerified,
		domain.ErrEmailTaken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
