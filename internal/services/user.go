package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"societyattendance/internal/authz"
	"societyattendance/internal/domain"
)

type userService struct {
	userRepo   domain.UserRepository
	domainRepo domain.DomainRepository
	hasher     domain.PasswordHasher
}

// NewUserService creates a UserService with the given repositories and hasher.
func NewUserService(userRepo domain.UserRepository, domainRepo domain.DomainRepository, hasher domain.PasswordHasher) domain.UserService {
	return &userService{
		userRepo:   userRepo,
		domainRepo: domainRepo,
		hasher:     hasher,
	}
}

func (s *userService) Create(ctx context.Context, actor *domain.User, input domain.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", input.Role, domain.ErrInvalidInput)
	}
	if d := authz.CanCreateUser(actor, role, input.DomainID); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.PersonalEmail = strings.TrimSpace(strings.ToLower(input.PersonalEmail))
	input.Roll = strings.TrimSpace(input.Roll)
	if input.Name == "" || input.Roll == "" {
		return nil, fmt.Errorf("name and roll are required: %w", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(input.Email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidInput)
	}

	domainID := input.DomainID
	if role == domain.RoleSuperAdmin {
		domainID = nil
	}
	// An admin creating a member without naming a domain lands the member in
	// the admin's own domain.
	if actor.Role == domain.RoleAdmin && domainID == nil {
		domainID = actor.DomainID
	}
	if domainID != nil {
		if _, err := s.domainRepo.GetByID(ctx, *domainID); err != nil {
			return nil, err
		}
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Name:          input.Name,
		Email:         input.Email,
		PersonalEmail: input.PersonalEmail,
		Roll:          input.Roll,
		PasswordHash:  hash,
		Salt:          salt,
		Role:          role,
		DomainID:      domainID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor *domain.User, filter domain.UserFilter) ([]*domain.User, error) {
	// Non-super-admins are pinned to their own domain regardless of the
	// requested filter.
	if scope := authz.UserListDomain(actor); scope != nil {
		filter.DomainID = scope
	}
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewUser(actor, user); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor *domain.User, id string, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanUpdateUser(actor, user); !d.Allowed {
		return nil, fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	update = authz.SanitizeUserUpdate(actor, user, update)

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if update.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*update.Email))
		if !emailRegexp.MatchString(email) {
			return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
		}
		user.Email = email
	}
	if update.Roll != nil {
		roll := strings.TrimSpace(*update.Roll)
		if roll == "" {
			return nil, fmt.Errorf("roll cannot be empty: %w", domain.ErrInvalidInput)
		}
		user.Roll = roll
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q: %w", *update.Role, domain.ErrInvalidInput)
		}
		user.Role = *update.Role
	}
	if update.DomainID != nil {
		if *update.DomainID != nil {
			if _, err := s.domainRepo.GetByID(ctx, **update.DomainID); err != nil {
				return nil, err
			}
		}
		user.DomainID = *update.DomainID
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if d := authz.CanDeleteUser(actor, id); !d.Allowed {
		return fmt.Errorf("%s: %w", d.Reason, domain.ErrForbidden)
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
