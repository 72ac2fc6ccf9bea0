// Package authz is the authorization engine: every policy question in the
// application is answered here as a pure function of the acting user's role
// and domain membership and the target resource's domain and state. Handlers
// and services never compare role strings inline; they ask this package and
// branch on the Decision.
package authz

import (
	"societyattendance/internal/domain"
)

// Decision is the tagged result of a policy evaluation. A denied Decision
// carries the reason surfaced to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting Decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying Decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func sameDomain(a *string, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// CanManageDomains reports whether the actor may create or delete domains.
func CanManageDomains(actor *domain.User) Decision {
	if actor.Role == domain.RoleSuperAdmin {
		return Allow()
	}
	return Deny("only super admins can manage domains")
}

// CanCreateEvent reports whether the actor may create an event in the given
// domain. requestedDomainID is the domain the caller asked for; nil means no
// explicit domain. Admins are confined to their own domain.
func CanCreateEvent(actor *domain.User, requestedDomainID *string) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if requestedDomainID != nil && !sameDomain(requestedDomainID, actor.DomainID) {
			return Deny("admins can only create events for their own domain")
		}
		return Allow()
	}
	return Deny("only admins can create events")
}

// EventDomainForCreate resolves the domain a new event lands in. An admin's
// event is forced into the admin's own domain when no explicit domain is
// given; a super admin's choice is taken as-is (nil means organization-wide).
func EventDomainForCreate(actor *domain.User, requestedDomainID *string) *string {
	if actor.Role == domain.RoleAdmin && requestedDomainID == nil {
		return actor.DomainID
	}
	return requestedDomainID
}

// CanViewEvent reports whether the actor may read the event. Members may read
// events in their own domain and organization-wide events; admins read only
// their own domain's events.
func CanViewEvent(actor *domain.User, event *domain.Event) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(event.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("event belongs to another domain")
	default:
		if event.DomainID == nil || sameDomain(event.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("event belongs to another domain")
	}
}

// CanModifyEvent reports whether the actor may edit, close, or reopen the
// event. Event state (open/closed) is a workflow concern checked separately;
// this covers only role and tenancy.
func CanModifyEvent(actor *domain.User, event *domain.Event) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(event.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("event belongs to another domain")
	}
	return Deny("only admins can modify events")
}

// CanWriteAttendance reports whether the actor may mark, update, or delete
// attendance under the event. The event's OPEN requirement is enforced by the
// workflow as a state check, not here.
func CanWriteAttendance(actor *domain.User, event *domain.Event) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(event.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("event belongs to another domain")
	}
	return Deny("only admins can mark attendance")
}

// CanViewAttendance reports whether the actor may read a single attendance
// row. Members see only their own record.
func CanViewAttendance(actor *domain.User, att *domain.Attendance, event *domain.Event) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(event.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("record belongs to another domain")
	default:
		if att.UserID == actor.ID {
			return Allow()
		}
		return Deny("members can only view their own attendance")
	}
}

// ListScope is the mandatory filter applied to attendance listings. Exactly
// one of the fields is set for non-super-admin actors.
type ListScope struct {
	UserID   *string // member: only their own rows
	DomainID *string // admin: only rows under their domain's events
}

// AttendanceListScope returns the scope the actor's attendance listings must
// be filtered to. Super admins are unfiltered.
func AttendanceListScope(actor *domain.User) ListScope {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return ListScope{}
	case domain.RoleAdmin:
		return ListScope{DomainID: actor.DomainID}
	default:
		id := actor.ID
		return ListScope{UserID: &id}
	}
}

// UserListDomain returns the domain a user listing must be restricted to,
// or nil for an unrestricted listing.
func UserListDomain(actor *domain.User) *string {
	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}
	return actor.DomainID
}

// CanCreateUser reports whether the actor may create a user with the given
// role in the given domain. Super admins create anyone; admins create only
// members inside their own domain.
func CanCreateUser(actor *domain.User, role domain.Role, domainID *string) Decision {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if role != "" && role != domain.RoleMember {
			return Deny("admins can only create members")
		}
		if domainID != nil && !sameDomain(domainID, actor.DomainID) {
			return Deny("admins can only create users in their own domain")
		}
		return Allow()
	}
	return Deny("only admins can create users")
}

// CanViewUser reports whether the actor may read the target user's profile.
// Self-access is always permitted.
func CanViewUser(actor *domain.User, target *domain.User) Decision {
	if actor.ID == target.ID {
		return Allow()
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(target.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("user belongs to another domain")
	}
	return Deny("members can only view their own profile")
}

// CanUpdateUser reports whether the actor may update the target user at all.
// Field-level restrictions are applied by SanitizeUserUpdate afterwards.
func CanUpdateUser(actor *domain.User, target *domain.User) Decision {
	if actor.ID == target.ID {
		return Allow()
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		if sameDomain(target.DomainID, actor.DomainID) {
			return Allow()
		}
		return Deny("user belongs to another domain")
	}
	return Deny("members can only update their own profile")
}

// SanitizeUserUpdate strips the fields the actor is not allowed to change and
// enforces the SUPER_ADMIN/domain invariant. Role changes are silently
// dropped for everyone but super admins; domain changes are dropped for
// members. When the effective role after the update is SUPER_ADMIN the domain
// is forced to null.
func SanitizeUserUpdate(actor *domain.User, target *domain.User, update domain.UserUpdate) domain.UserUpdate {
	if actor.Role != domain.RoleSuperAdmin {
		update.Role = nil
	}
	if !actor.Role.IsPrivileged() {
		update.DomainID = nil
	}
	effectiveRole := target.Role
	if update.Role != nil {
		effectiveRole = *update.Role
	}
	if effectiveRole == domain.RoleSuperAdmin {
		var null *string
		update.DomainID = &null
	}
	return update
}

// CanDeleteUser reports whether the actor may delete the target user. Only
// super admins delete users, and never themselves.
func CanDeleteUser(actor *domain.User, targetID string) Decision {
	if actor.Role != domain.RoleSuperAdmin {
		return Deny("only super admins can delete users")
	}
	if actor.ID == targetID {
		return Deny("cannot delete your own account")
	}
	return Allow()
}

// CanViewUserStats reports whether the actor may read the target user's
// attendance statistics.
func CanViewUserStats(actor *domain.User, target *domain.User) Decision {
	return CanViewUser(actor, target)
}

// CanViewMembers reports whether the actor may use the members dashboard.
func CanViewMembers(actor *domain.User) Decision {
	if actor.Role.IsPrivileged() {
		return Allow()
	}
	return Deny("insufficient permissions")
}
