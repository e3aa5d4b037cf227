package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/infrastructure/cache"
	"clinic-backoffice/internal/service"
	"clinic-backoffice/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserInactive       = errors.New("user is inactive")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID int64, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID int64) (*dto.MeResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	catalog      *authz.Catalog
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	tokenStore   *cache.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	catalog *authz.Catalog,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore *cache.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		catalog:      catalog,
		userRepo:     userRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "user", idString(user.ID), nil)
	return tokens, nil
}

// Logout revokes the current access token and, when given, the refresh token
// issued alongside it.
func (u *authUsecase) Logout(ctx context.Context, userID int64, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Revoke(ctx, cache.AccessTokenKind, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, cache.RefreshTokenKind, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return err
			}
		}
	}

	u.auditService.LogCreate(ctx, &userID, entity.AuditActionUserLogout, "user", idString(userID), nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	valid, err := u.tokenStore.Valid(ctx, cache.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if !valid {
		return nil, ErrTokenRevoked
	}

	// refresh tokens are single use
	if err := u.tokenStore.Revoke(ctx, cache.RefreshTokenKind, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	granted := u.catalog.Expand(authz.ParseGrant(user.Role.Permissions))
	permissions := make([]string, 0, len(granted))
	for _, key := range u.catalog.Keys() {
		if granted.Has(key) {
			permissions = append(permissions, key)
		}
	}

	return &dto.MeResponse{
		User:        *converter.UserToResponse(user),
		Permissions: permissions,
	}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Register(ctx, cache.AccessTokenKind, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Register(ctx, cache.RefreshTokenKind, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// paginate normalizes page and limit and returns the matching offset
func paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
