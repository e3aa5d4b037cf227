package http

import (
	"net/http"

	"clinic-backoffice/internal/authz"
	"clinic-backoffice/internal/delivery/http/handler"
	"clinic-backoffice/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	userHandler          *handler.UserHandler
	roleHandler          *handler.RoleHandler
	productHandler       *handler.ProductHandler
	saleHandler          *handler.SaleHandler
	patientHandler       *handler.PatientHandler
	salesAgentHandler    *handler.SalesAgentHandler
	expenseHandler       *handler.ExpenseHandler
	settingHandler       *handler.SettingHandler
	auditLogHandler      *handler.AuditLogHandler
	reportHandler        *handler.ReportHandler
	wsHandler            *handler.WSHandler
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Role       *handler.RoleHandler
	Product    *handler.ProductHandler
	Sale       *handler.SaleHandler
	Patient    *handler.PatientHandler
	SalesAgent *handler.SalesAgentHandler
	Expense    *handler.ExpenseHandler
	Setting    *handler.SettingHandler
	AuditLog   *handler.AuditLogHandler
	Report     *handler.ReportHandler
	WS         *handler.WSHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	permissionMiddleware *middleware.PermissionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          handlers.Auth,
		userHandler:          handlers.User,
		roleHandler:          handlers.Role,
		productHandler:       handlers.Product,
		saleHandler:          handlers.Sale,
		patientHandler:       handlers.Patient,
		salesAgentHandler:    handlers.SalesAgent,
		expenseHandler:       handlers.Expense,
		settingHandler:       handlers.Setting,
		auditLogHandler:      handlers.AuditLog,
		reportHandler:        handlers.Report,
		wsHandler:            handlers.WS,
		authMiddleware:       authMiddleware,
		permissionMiddleware: permissionMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Realtime events, authenticated by query token
	api.HandleFunc("/ws", r.wsHandler.Serve).Methods(http.MethodGet)

	// Everything below needs a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	perm := r.permissionMiddleware
	one := func(key string, h http.HandlerFunc) http.Handler {
		return perm.RequireOne(key)(h)
	}
	anyOf := func(h http.HandlerFunc, keys ...string) http.Handler {
		return perm.RequireAny(keys...)(h)
	}

	// Users
	protected.Handle("/users", one(authz.UsersCreate, r.userHandler.CreateUser)).Methods(http.MethodPost)
	protected.Handle("/users", one(authz.UsersView, r.userHandler.GetAllUsers)).Methods(http.MethodGet)
	protected.Handle("/users/{id}", one(authz.UsersView, r.userHandler.GetUser)).Methods(http.MethodGet)
	protected.Handle("/users/{id}", one(authz.UsersUpdate, r.userHandler.UpdateUser)).Methods(http.MethodPut)
	protected.Handle("/users/{id}", one(authz.UsersDelete, r.userHandler.DeleteUser)).Methods(http.MethodDelete)

	// Roles and the permission catalog
	protected.Handle("/permissions", one(authz.RolesView, r.roleHandler.GetPermissions)).Methods(http.MethodGet)
	protected.Handle("/roles", one(authz.RolesCreate, r.roleHandler.CreateRole)).Methods(http.MethodPost)
	protected.Handle("/roles", anyOf(r.roleHandler.GetAllRoles, authz.RolesView, authz.UsersCreate, authz.UsersUpdate)).Methods(http.MethodGet)
	protected.Handle("/roles/{id}", one(authz.RolesView, r.roleHandler.GetRole)).Methods(http.MethodGet)
	protected.Handle("/roles/{id}", one(authz.RolesUpdate, r.roleHandler.UpdateRole)).Methods(http.MethodPut)
	protected.Handle("/roles/{id}", one(authz.RolesDelete, r.roleHandler.DeleteRole)).Methods(http.MethodDelete)

	// Products; cashiers need the list to build a sale
	protected.Handle("/products", one(authz.ProductsCreate, r.productHandler.Create)).Methods(http.MethodPost)
	protected.Handle("/products", anyOf(r.productHandler.GetAll, authz.ProductsView, authz.SalesCreate, authz.SalesUpdate)).Methods(http.MethodGet)
	protected.Handle("/products/{id}", anyOf(r.productHandler.GetByID, authz.ProductsView, authz.SalesCreate, authz.SalesUpdate)).Methods(http.MethodGet)
	protected.Handle("/products/{id}", one(authz.ProductsUpdate, r.productHandler.Update)).Methods(http.MethodPut)
	protected.Handle("/products/{id}", one(authz.ProductsDelete, r.productHandler.Delete)).Methods(http.MethodDelete)

	// Sales; export is registered before {id} so it is not read as an id
	protected.Handle("/sales/export", one(authz.SalesExport, r.saleHandler.ExportSales)).Methods(http.MethodGet)
	protected.Handle("/sales", one(authz.SalesCreate, r.saleHandler.CreateSale)).Methods(http.MethodPost)
	protected.Handle("/sales", one(authz.SalesView, r.saleHandler.ListSales)).Methods(http.MethodGet)
	protected.Handle("/sales/{id}", one(authz.SalesView, r.saleHandler.GetSale)).Methods(http.MethodGet)
	protected.Handle("/sales/{id}", one(authz.SalesUpdate, r.saleHandler.UpdateSale)).Methods(http.MethodPut)
	protected.Handle("/sales/{id}", one(authz.SalesDelete, r.saleHandler.DeleteSale)).Methods(http.MethodDelete)
	protected.Handle("/sales/{id}/recalculate", one(authz.SalesRecalculate, r.saleHandler.RecalculateTotal)).Methods(http.MethodPost)

	// Patients
	protected.Handle("/patients", one(authz.PatientsCreate, r.patientHandler.CreatePatient)).Methods(http.MethodPost)
	protected.Handle("/patients", anyOf(r.patientHandler.GetAllPatients, authz.PatientsView, authz.SalesCreate, authz.SalesUpdate)).Methods(http.MethodGet)
	protected.Handle("/patients/{id}", one(authz.PatientsView, r.patientHandler.GetPatient)).Methods(http.MethodGet)
	protected.Handle("/patients/{id}", one(authz.PatientsUpdate, r.patientHandler.UpdatePatient)).Methods(http.MethodPut)
	protected.Handle("/patients/{id}", one(authz.PatientsDelete, r.patientHandler.DeletePatient)).Methods(http.MethodDelete)

	// Sales agents
	protected.Handle("/sales-agents", one(authz.SalesAgentsCreate, r.salesAgentHandler.CreateSalesAgent)).Methods(http.MethodPost)
	protected.Handle("/sales-agents", anyOf(r.salesAgentHandler.GetAllSalesAgents, authz.SalesAgentsView, authz.SalesCreate, authz.SalesUpdate)).Methods(http.MethodGet)
	protected.Handle("/sales-agents/{id}", one(authz.SalesAgentsView, r.salesAgentHandler.GetSalesAgent)).Methods(http.MethodGet)
	protected.Handle("/sales-agents/{id}", one(authz.SalesAgentsUpdate, r.salesAgentHandler.UpdateSalesAgent)).Methods(http.MethodPut)
	protected.Handle("/sales-agents/{id}", one(authz.SalesAgentsDelete, r.salesAgentHandler.DeleteSalesAgent)).Methods(http.MethodDelete)

	// Expenses
	protected.Handle("/expenses", one(authz.ExpensesCreate, r.expenseHandler.CreateExpense)).Methods(http.MethodPost)
	protected.Handle("/expenses", one(authz.ExpensesView, r.expenseHandler.GetAllExpenses)).Methods(http.MethodGet)
	protected.Handle("/expenses/{id}", one(authz.ExpensesView, r.expenseHandler.GetExpense)).Methods(http.MethodGet)
	protected.Handle("/expenses/{id}", one(authz.ExpensesUpdate, r.expenseHandler.UpdateExpense)).Methods(http.MethodPut)
	protected.Handle("/expenses/{id}", one(authz.ExpensesDelete, r.expenseHandler.DeleteExpense)).Methods(http.MethodDelete)

	// Settings
	protected.Handle("/settings", one(authz.SettingsView, r.settingHandler.GetAllSettings)).Methods(http.MethodGet)
	protected.Handle("/settings/{key}", one(authz.SettingsView, r.settingHandler.GetSetting)).Methods(http.MethodGet)
	protected.Handle("/settings/{key}", one(authz.SettingsUpdate, r.settingHandler.UpdateSetting)).Methods(http.MethodPut)

	// Audit logs
	protected.Handle("/audit-logs", one(authz.AuditLogsView, r.auditLogHandler.GetAllAuditLogs)).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id}", one(authz.AuditLogsView, r.auditLogHandler.GetAuditLog)).Methods(http.MethodGet)

	// Reports
	protected.Handle("/reports/summary", one(authz.DashboardView, r.reportHandler.GetSummary)).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
