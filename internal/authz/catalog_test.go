package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog(
		Module{Name: "products", Label: "Products", Permissions: []Permission{
			{Key: "products.view", Label: "View", Category: CategoryRead},
			{Key: "products.create", Label: "Create", Category: CategoryWrite},
		}},
		Module{Name: "sales", Label: "Sales", Permissions: []Permission{
			{Key: "sales.view", Label: "View", Category: CategoryRead},
		}},
	)
}

func TestExpandWildcardReturnsWholeCatalog(t *testing.T) {
	c := testCatalog()

	got := c.Expand(AllGrant())

	assert.ElementsMatch(t, []string{"products.view", "products.create", "sales.view"}, got.Sorted())
}

func TestExpandWildcardFollowsCatalogGrowth(t *testing.T) {
	c := testCatalog()
	grant := ParseGrant([]string{"*"})
	require.False(t, c.HasOne(grant, "expenses.view"))

	grown := c.With(Module{Name: "expenses", Permissions: []Permission{
		{Key: "expenses.view", Category: CategoryRead},
	}})

	assert.True(t, grown.HasOne(grant, "expenses.view"))
	assert.Len(t, grown.Expand(grant), 4)
	// the original catalog is immutable
	assert.False(t, c.Contains("expenses.view"))
	assert.Len(t, c.Expand(grant), 3)
}

func TestExpandExplicitReturnsGrantAsSet(t *testing.T) {
	c := testCatalog()
	grant := ExplicitGrant("sales.view", "products.view", "sales.view", "legacy.key")

	got := c.Expand(grant)

	assert.ElementsMatch(t, []string{"legacy.key", "products.view", "sales.view"}, got.Sorted())
}

func TestParseGrant(t *testing.T) {
	assert.True(t, ParseGrant([]string{"products.view", "*"}).IsAll())
	assert.False(t, ParseGrant([]string{"products.view"}).IsAll())
	assert.False(t, ParseGrant(nil).IsAll())
	assert.Equal(t, []string{"*"}, AllGrant().Strings())
	assert.Equal(t, []string{"a", "b"}, ParseGrant([]string{"a", "b", "a"}).Strings())
}

func TestHasAnyHasAll(t *testing.T) {
	c := testCatalog()
	grant := ExplicitGrant("products.view", "sales.view")

	tests := []struct {
		name     string
		required []string
		any      bool
		all      bool
	}{
		{name: "empty requirement", required: nil, any: true, all: true},
		{name: "single held", required: []string{"sales.view"}, any: true, all: true},
		{name: "one of two held", required: []string{"sales.view", "products.create"}, any: true, all: false},
		{name: "none held", required: []string{"products.create"}, any: false, all: false},
		{name: "both held", required: []string{"sales.view", "products.view"}, any: true, all: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.any, c.HasAny(grant, tt.required...))
			assert.Equal(t, tt.all, c.HasAll(grant, tt.required...))
		})
	}
}

func TestEmptyGrantHoldsNothing(t *testing.T) {
	c := testCatalog()

	assert.False(t, c.HasOne(Grant{}, "products.view"))
	assert.False(t, c.HasAny(Grant{}, "products.view"))
	assert.True(t, c.HasAny(Grant{}))
}

func TestCheckDispatchesOnMode(t *testing.T) {
	c := testCatalog()
	grant := ExplicitGrant("products.view")

	assert.True(t, c.Check(grant, Any("products.view", "sales.view")))
	assert.False(t, c.Check(grant, All("products.view", "sales.view")))
	assert.True(t, c.Check(grant, One("products.view")))
	assert.False(t, c.Check(grant, One("sales.view")))
	assert.True(t, c.Check(AllGrant(), All("products.view", "sales.view")))
}

func TestValidate(t *testing.T) {
	c := testCatalog()

	assert.NoError(t, c.Validate([]string{"*"}))
	assert.NoError(t, c.Validate([]string{"products.view", "sales.view"}))
	err := c.Validate([]string{"products.view", "nope"})
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestTreeIsACopy(t *testing.T) {
	c := testCatalog()

	tree := c.Tree()
	tree[0].Permissions[0].Key = "mutated"

	assert.True(t, c.Contains("products.view"))
	assert.Equal(t, "products.view", c.Tree()[0].Permissions[0].Key)
}

func TestDefaultCatalogCoversRouteKeys(t *testing.T) {
	for _, key := range []string{
		DashboardView, UsersView, RolesDelete, ProductsCreate, SalesRecalculate,
		SalesExport, ExpensesUpdate, PatientsDelete, SalesAgentsView, SettingsUpdate, AuditLogsView,
	} {
		assert.True(t, DefaultCatalog.Contains(key), key)
	}
	assert.Len(t, DefaultCatalog.Expand(AllGrant()), len(DefaultCatalog.Keys()))
}
