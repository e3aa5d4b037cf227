package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleNameExists    = errors.New("role name already exists")
	ErrRoleInUse         = errors.New("role is assigned to users")
	ErrInvalidPermission = errors.New("invalid permission")
)

type RoleUsecase interface {
	CreateRole(ctx context.Context, actorID int64, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	GetAllRoles(ctx context.Context) ([]dto.RoleResponse, error)
	GetRole(ctx context.Context, id int64) (*dto.RoleResponse, error)
	UpdateRole(ctx context.Context, actorID, id int64, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	DeleteRole(ctx context.Context, actorID, id int64) error
	GetPermissionTree(ctx context.Context) []authz.Module
}

type roleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	catalog      *authz.Catalog
	roleRepo     repository.RoleRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
}

func NewRoleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	catalog *authz.Catalog,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) RoleUsecase {
	return &roleUsecase{
		db:           db,
		log:          log,
		catalog:      catalog,
		roleRepo:     roleRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

// normalizePermissions checks keys against the catalog and returns the
// persisted form of the resulting grant.
func (u *roleUsecase) normalizePermissions(keys []string) (datatypes.JSONSlice[string], error) {
	if err := u.catalog.Validate(keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPermission, err)
	}
	return datatypes.JSONSlice[string](authz.ParseGrant(keys).Strings()), nil
}

func (u *roleUsecase) CreateRole(ctx context.Context, actorID int64, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	permissions, err := u.normalizePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	name := strings.TrimSpace(req.Name)
	existing, err := u.roleRepo.FindByName(ctx, tx, name)
	if err != nil {
		u.log.Warnf("Failed to find role by name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrRoleNameExists
	}

	role := &entity.Role{
		Name:        name,
		Description: req.Description,
		Permissions: permissions,
	}

	if err := u.roleRepo.Create(ctx, tx, role); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrRoleNameExists
		}
		u.log.Warnf("Failed to create role: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.RoleToResponse(role)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionRoleCreate, "role", idString(role.ID), resp)
	return resp, nil
}

func (u *roleUsecase) GetAllRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := u.roleRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find roles: %+v", err)
		return nil, err
	}
	return converter.RolesToResponses(roles), nil
}

func (u *roleUsecase) GetRole(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := u.roleRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return converter.RoleToResponse(role), nil
}

func (u *roleUsecase) UpdateRole(ctx context.Context, actorID, id int64, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	permissions, err := u.normalizePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.roleRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	oldValue := converter.RoleToResponse(role)

	name := strings.TrimSpace(req.Name)
	if name != role.Name {
		existing, err := u.roleRepo.FindByName(ctx, tx, name)
		if err != nil {
			u.log.Warnf("Failed to find role by name: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrRoleNameExists
		}
	}

	role.Name = name
	role.Description = req.Description
	role.Permissions = permissions

	if err := u.roleRepo.Update(ctx, tx, role); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrRoleNameExists
		}
		u.log.Warnf("Failed to update role: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.RoleToResponse(role)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionRoleUpdate, "role", idString(role.ID), oldValue, resp)
	return resp, nil
}

func (u *roleUsecase) DeleteRole(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.roleRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	assigned, err := u.userRepo.CountByRole(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to count users by role: %+v", err)
		return err
	}
	if assigned > 0 {
		return ErrRoleInUse
	}

	if err := u.roleRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "role") {
			return ErrRoleInUse
		}
		u.log.Warnf("Failed to delete role: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionRoleDelete, "role", idString(id), converter.RoleToResponse(role))
	return nil
}

func (u *roleUsecase) GetPermissionTree(ctx context.Context) []authz.Module {
	return u.catalog.Tree()
}
