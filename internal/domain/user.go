package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrDuplicateRoll  = errors.New("roll number already in use")
)

// Role is the application role of a user. Roles are strictly ordered by
// privilege: MEMBER < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether r is ADMIN or SUPER_ADMIN.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a registered member of the organization.
// A SUPER_ADMIN always has DomainID == nil; members and admins belong to at
// most one domain.
// swagger:model User
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PersonalEmail string    `json:"personal_email,omitempty"`
	Roll          string    `json:"roll"`
	PasswordHash  string    `json:"-"`
	Salt          string    `json:"-"`
	Role          Role      `json:"role"`
	DomainID      *string   `json:"domain_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserFilter narrows List queries. Nil fields are ignored.
type UserFilter struct {
	DomainID *string
	Role     *Role
	Query    string // substring match on name, email, personal email, or roll
}

// UserUpdate carries the mutable user fields for a partial update. Nil fields
// are left unchanged. DomainID uses a double pointer so callers can
// distinguish "not provided" (nil) from "set to null" (*DomainID == nil).
type UserUpdate struct {
	Name     *string
	Email    *string
	Roll     *string
	Role     *Role
	DomainID **string
}

// CreateUserInput is the payload for admin-driven user creation.
type CreateUserInput struct {
	Name          string
	Email         string
	PersonalEmail string
	Roll          string
	Password      string
	Role          Role
	DomainID      *string
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the subject user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByAnyEmail reports whether any user has the given address as
	// either their institutional or personal email.
	ExistsByAnyEmail(ctx context.Context, email string) (bool, error)
	ExistsByRoll(ctx context.Context, roll string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	ListByDomainID(ctx context.Context, domainID string, excludeSuperAdmins bool) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// UserService defines user directory operations. Every operation is evaluated
// against the acting user's role and domain membership.
type UserService interface {
	Create(ctx context.Context, actor *User, input CreateUserInput) (*User, error)
	List(ctx context.Context, actor *User, filter UserFilter) ([]*User, error)
	GetByID(ctx context.Context, actor *User, id string) (*User, error)
	Update(ctx context.Context, actor *User, id string, update UserUpdate) (*User, error)
	Delete(ctx context.Context, actor *User, id string) error
}
