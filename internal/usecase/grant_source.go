package usecase

import (
	"context"
	"fmt"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/domain/repository"

	"gorm.io/gorm"
)

// RoleGrantSource resolves a caller's grant from their current role.
// Nothing is cached: role edits apply to the next request.
type RoleGrantSource struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewRoleGrantSource(db *gorm.DB, userRepo repository.UserRepository) *RoleGrantSource {
	return &RoleGrantSource{db: db, userRepo: userRepo}
}

// GrantFor fails with authz.ErrNoGrant, wrapping ErrUserNotFound or
// ErrUserInactive, when the caller cannot act at all.
func (s *RoleGrantSource) GrantFor(ctx context.Context, userID int64) (authz.Grant, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return authz.Grant{}, err
	}
	if user == nil {
		return authz.Grant{}, fmt.Errorf("%w: %w", authz.ErrNoGrant, ErrUserNotFound)
	}
	if !user.Active() {
		return authz.Grant{}, fmt.Errorf("%w: %w", authz.ErrNoGrant, ErrUserInactive)
	}
	return authz.ParseGrant(user.Role.Permissions), nil
}
