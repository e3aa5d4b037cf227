package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/infrastructure/cache"
	"clinic-backoffice/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
	ErrUserInUse          = errors.New("user is referenced by sales")
)

type UserUsecase interface {
	CreateUser(ctx context.Context, actorID int64, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error)
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actorID, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	tokenStore   *cache.TokenStore
	auditService service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenStore *cache.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, actorID int64, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.roleRepo.FindByID(ctx, tx, req.RoleID)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user := &entity.User{
		RoleID:   role.ID,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: &active,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.Role = *role
	resp := converter.UserToResponse(user)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionUserCreate, "user", idString(user.ID), resp)
	return resp, nil
}

func (u *userUsecase) GetAllUsers(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	users, total, err := u.userRepo.FindAll(ctx, u.db, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, 0, err
	}

	return converter.UsersToResponses(users), total, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// UpdateUser replaces the user's profile. Changing the password or
// deactivating the account revokes every token the user holds.
func (u *userUsecase) UpdateUser(ctx context.Context, actorID, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	oldValue := converter.UserToResponse(user)

	role, err := u.roleRepo.FindByID(ctx, tx, req.RoleID)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	revoke := false
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
		revoke = true
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.Active() {
			revoke = true
		}
		active := *req.IsActive
		user.IsActive = &active
	}

	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.FullName = req.FullName
	user.RoleID = role.ID

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if revoke {
		if err := u.tokenStore.RevokeUser(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke tokens of user %d: %+v", user.ID, err)
		}
	}

	user.Role = *role
	resp := converter.UserToResponse(user)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionUserUpdate, "user", idString(user.ID), oldValue, resp)
	return resp, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.userRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "") {
			return ErrUserInUse
		}
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeUser(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %d: %+v", id, err)
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionUserDelete, "user", idString(id), converter.UserToResponse(user))
	return nil
}
