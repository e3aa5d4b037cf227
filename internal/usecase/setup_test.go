package usecase

import (
	"io"
	"sync"
	"testing"

	"clinic-backoffice/internal/domain/entity"
	repoimpl "clinic-backoffice/internal/repository"
	"clinic-backoffice/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps a single in-memory database alive
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Patient{},
		&entity.SalesAgent{},
		&entity.Product{},
		&entity.SupplementaryLink{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Expense{},
		&entity.Setting{},
		&entity.AuditLog{},
	))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAuditService(db *gorm.DB) service.AuditService {
	return service.NewAuditService(db, newTestLogger(), repoimpl.NewAuditLogRepository())
}

type publishedEvent struct {
	name    string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(name string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{name: name, payload: payload})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.name
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedRole(t *testing.T, db *gorm.DB, name string, perms ...string) *entity.Role {
	t.Helper()
	role := &entity.Role{Name: name, Permissions: perms}
	require.NoError(t, db.Create(role).Error)
	return role
}

func seedUser(t *testing.T, db *gorm.DB, roleID int64, email string) *entity.User {
	t.Helper()
	active := true
	user := &entity.User{RoleID: roleID, Email: email, Password: "x", FullName: email, IsActive: &active}
	require.NoError(t, db.Omit("Role").Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, supplementary bool) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: dec(price), IsSupplementary: supplementary, CanSellStandalone: true, IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedLink(t *testing.T, db *gorm.DB, parentID, supplementaryID int64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.SupplementaryLink{ParentProductID: parentID, SupplementaryProductID: supplementaryID}).Error)
}
