package usecase

import (
	"context"
	"testing"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/delivery/dto"
	repoimpl "clinic-backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRoleUsecase(db *gorm.DB) RoleUsecase {
	return NewRoleUsecase(db, newTestLogger(), authz.DefaultCatalog,
		repoimpl.NewRoleRepository(), repoimpl.NewUserRepository(), newTestAuditService(db))
}

func TestCreateRoleNormalizesPermissions(t *testing.T) {
	uc := newTestRoleUsecase(newTestDB(t))

	role, err := uc.CreateRole(context.Background(), 1, &dto.CreateRoleRequest{
		Name:        "  cashier ",
		Permissions: []string{authz.SalesCreate, authz.ProductsView, authz.SalesCreate},
	})
	require.NoError(t, err)

	assert.Equal(t, "cashier", role.Name)
	assert.Equal(t, []string{authz.SalesCreate, authz.ProductsView}, role.Permissions)
}

func TestCreateRoleWildcardWins(t *testing.T) {
	uc := newTestRoleUsecase(newTestDB(t))

	role, err := uc.CreateRole(context.Background(), 1, &dto.CreateRoleRequest{
		Name:        "owner",
		Permissions: []string{authz.ProductsView, authz.Wildcard},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{authz.Wildcard}, role.Permissions)
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	db := newTestDB(t)
	uc := newTestRoleUsecase(db)

	_, err := uc.CreateRole(context.Background(), 1, &dto.CreateRoleRequest{
		Name:        "broken",
		Permissions: []string{authz.ProductsView, "products.launch"},
	})
	require.ErrorIs(t, err, ErrInvalidPermission)
	assert.Contains(t, err.Error(), "products.launch")

	roles, err := uc.GetAllRoles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	uc := newTestRoleUsecase(newTestDB(t))
	ctx := context.Background()

	req := &dto.CreateRoleRequest{Name: "nurse", Permissions: []string{authz.PatientsView}}
	_, err := uc.CreateRole(ctx, 1, req)
	require.NoError(t, err)

	_, err = uc.CreateRole(ctx, 1, req)
	assert.ErrorIs(t, err, ErrRoleNameExists)
}

func TestDeleteRoleInUse(t *testing.T) {
	db := newTestDB(t)
	uc := newTestRoleUsecase(db)
	ctx := context.Background()

	role := seedRole(t, db, "front-desk", authz.PatientsView)
	seedUser(t, db, role.ID, "desk@clinic.test")

	assert.ErrorIs(t, uc.DeleteRole(ctx, 1, role.ID), ErrRoleInUse)

	_, err := uc.GetRole(ctx, role.ID)
	assert.NoError(t, err)
}

func TestDeleteRoleUnassigned(t *testing.T) {
	db := newTestDB(t)
	uc := newTestRoleUsecase(db)
	ctx := context.Background()

	role := seedRole(t, db, "temp", authz.PatientsView)
	require.NoError(t, uc.DeleteRole(ctx, 1, role.ID))

	_, err := uc.GetRole(ctx, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestGetPermissionTreeFollowsCatalog(t *testing.T) {
	uc := newTestRoleUsecase(newTestDB(t))

	tree := uc.GetPermissionTree(context.Background())
	require.NotEmpty(t, tree)
	assert.Equal(t, authz.DefaultCatalog.Tree(), tree)
}
