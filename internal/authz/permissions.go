package authz

// Permission keys. Every protected route refers to one of these.
const (
	DashboardView = "dashboard.view"

	UsersView   = "users.view"
	UsersCreate = "users.create"
	UsersUpdate = "users.update"
	UsersDelete = "users.delete"

	RolesView   = "roles.view"
	RolesCreate = "roles.create"
	RolesUpdate = "roles.update"
	RolesDelete = "roles.delete"

	ProductsView   = "products.view"
	ProductsCreate = "products.create"
	ProductsUpdate = "products.update"
	ProductsDelete = "products.delete"

	SalesView        = "sales.view"
	SalesCreate      = "sales.create"
	SalesUpdate      = "sales.update"
	SalesDelete      = "sales.delete"
	SalesRecalculate = "sales.recalculate"
	SalesExport      = "sales.export"

	ExpensesView   = "expenses.view"
	ExpensesCreate = "expenses.create"
	ExpensesUpdate = "expenses.update"
	ExpensesDelete = "expenses.delete"

	PatientsView   = "patients.view"
	PatientsCreate = "patients.create"
	PatientsUpdate = "patients.update"
	PatientsDelete = "patients.delete"

	SalesAgentsView   = "sales_agents.view"
	SalesAgentsCreate = "sales_agents.create"
	SalesAgentsUpdate = "sales_agents.update"
	SalesAgentsDelete = "sales_agents.delete"

	SettingsView   = "settings.view"
	SettingsUpdate = "settings.update"

	AuditLogsView = "audit_logs.view"
)

// Permission categories
const (
	CategoryRead   = "read"
	CategoryWrite  = "write"
	CategoryDelete = "delete"
	CategoryAction = "action"
)

// crud builds the usual view/create/update/delete set for a module.
func crud(module, label string) Module {
	return Module{
		Name:  module,
		Label: label,
		Permissions: []Permission{
			{Key: module + ".view", Label: "View " + label, Category: CategoryRead},
			{Key: module + ".create", Label: "Create " + label, Category: CategoryWrite},
			{Key: module + ".update", Label: "Update " + label, Category: CategoryWrite},
			{Key: module + ".delete", Label: "Delete " + label, Category: CategoryDelete},
		},
	}
}

// DefaultCatalog is the process-wide permission tree.
var DefaultCatalog = NewCatalog(
	Module{
		Name:  "dashboard",
		Label: "Dashboard",
		Permissions: []Permission{
			{Key: DashboardView, Label: "View dashboard", Category: CategoryRead},
		},
	},
	crud("users", "Users"),
	crud("roles", "Roles"),
	crud("products", "Products"),
	func() Module {
		m := crud("sales", "Sales")
		m.Permissions = append(m.Permissions,
			Permission{Key: SalesRecalculate, Label: "Recalculate sale totals", Category: CategoryAction},
			Permission{Key: SalesExport, Label: "Export sales", Category: CategoryAction},
		)
		return m
	}(),
	crud("expenses", "Expenses"),
	crud("patients", "Patients"),
	crud("sales_agents", "Sales agents"),
	Module{
		Name:  "settings",
		Label: "Settings",
		Permissions: []Permission{
			{Key: SettingsView, Label: "View settings", Category: CategoryRead},
			{Key: SettingsUpdate, Label: "Update settings", Category: CategoryWrite},
		},
	},
	Module{
		Name:  "audit_logs",
		Label: "Audit logs",
		Permissions: []Permission{
			{Key: AuditLogsView, Label: "View audit logs", Category: CategoryRead},
		},
	},
)
