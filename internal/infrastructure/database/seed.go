package database

import (
	"context"
	"fmt"

	"clinic-backoffice/config"
	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedAdmin makes sure the wildcard admin role exists and, when an admin
// email is configured, that a user holding it exists. Existing rows are left
// untouched so a changed password in config does not overwrite the stored one.
func SeedAdmin(ctx context.Context, db *gorm.DB, roleRepo repository.RoleRepository, userRepo repository.UserRepository, cfg config.AdminConfig) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := roleRepo.FindByName(ctx, tx, entity.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to find admin role: %w", err)
		}
		if role == nil {
			role = &entity.Role{
				Name:        entity.RoleAdmin,
				Description: "Full access",
				Permissions: datatypes.JSONSlice[string]{authz.Wildcard},
			}
			if err := roleRepo.Create(ctx, tx, role); err != nil {
				return fmt.Errorf("failed to create admin role: %w", err)
			}
			logrus.Info("Seeded admin role")
		}

		if cfg.Email == "" {
			return nil
		}

		user, err := userRepo.FindByEmail(ctx, tx, cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to find admin user: %w", err)
		}
		if user != nil {
			return nil
		}
		if cfg.Password == "" {
			return fmt.Errorf("ADMIN_PASSWORD is required to seed %s", cfg.Email)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		active := true
		user = &entity.User{
			RoleID:   role.ID,
			Email:    cfg.Email,
			Password: string(hashed),
			FullName: cfg.FullName,
			IsActive: &active,
		}
		if err := userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logrus.WithField("email", cfg.Email).Info("Seeded admin user")
		return nil
	})
}
