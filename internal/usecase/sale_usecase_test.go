package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/pricing"
	repoimpl "clinic-backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	db        *gorm.DB
	uc        SaleUsecase
	publisher *recordingPublisher
	cashier   *entity.User
	patient   *entity.Patient
	a, b, c   *entity.Product
	d         *entity.Product
}

// A (10.00) carries supplementary B (2.50); B links C (99.00), which is never added.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	db := newTestDB(t)

	role := seedRole(t, db, "cashier", "sales.create")
	f := &saleFixture{
		db:        db,
		publisher: &recordingPublisher{},
		cashier:   seedUser(t, db, role.ID, "cashier@clinic.test"),
		patient:   &entity.Patient{FullName: "Jane Doe"},
	}
	require.NoError(t, db.Create(f.patient).Error)

	f.a = seedProduct(t, db, "A", "10.00", false)
	f.b = seedProduct(t, db, "B", "2.50", true)
	f.c = seedProduct(t, db, "C", "99.00", true)
	f.d = seedProduct(t, db, "D", "4.00", false)
	seedLink(t, db, f.a.ID, f.b.ID)
	seedLink(t, db, f.b.ID, f.c.ID)

	f.uc = NewSaleUsecase(db, newTestLogger(), pricing.Clamp,
		repoimpl.NewSaleRepository(),
		repoimpl.NewProductRepository(),
		repoimpl.NewPatientRepository(),
		repoimpl.NewSalesAgentRepository(),
		repoimpl.NewUserRepository(),
		newTestAuditService(db),
		f.publisher,
	)
	return f
}

func (f *saleFixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateSaleAddsSupplementaryOneLevel(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, dec("22.50").Equal(sale.Total), "total %s", sale.Total)
	assert.Equal(t, f.cashier.ID, sale.CashierID)
	require.Len(t, sale.Items, 2)

	assert.Equal(t, f.a.ID, sale.Items[0].ProductID)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.True(t, dec("20.00").Equal(sale.Items[0].Price))
	assert.False(t, sale.Items[0].IsSupplementary)

	assert.Equal(t, f.b.ID, sale.Items[1].ProductID)
	assert.True(t, dec("2.50").Equal(sale.Items[1].Price))
	assert.True(t, sale.Items[1].IsSupplementary)
	require.NotNil(t, sale.Items[1].SupplementaryParentID)
	assert.Equal(t, f.a.ID, *sale.Items[1].SupplementaryParentID)

	assert.Equal(t, []string{events.SaleCreated}, f.publisher.names())

	var logs []entity.AuditLog
	require.NoError(t, f.db.Where("action = ?", entity.AuditActionSaleCreate).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, f.cashier.ID, *logs[0].UserID)
}

func TestCreateSaleMissingProductWritesNothing(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items: []dto.SaleItemRequest{
			{ProductID: f.a.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, pricing.ErrProductNotFound)

	assert.Zero(t, f.count(t, &entity.Sale{}))
	assert.Zero(t, f.count(t, &entity.SaleItem{}))
	assert.Empty(t, f.publisher.names())
}

func TestCreateSaleUnknownPatient(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: 9999,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrPatientNotFound)
	assert.Zero(t, f.count(t, &entity.Sale{}))
}

func TestCreateSaleInvalidDiscount(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID:    f.patient.ID,
		Discount:     dec("150"),
		DiscountType: string(entity.DiscountPercent),
		Items:        []dto.SaleItemRequest{{ProductID: f.d.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, pricing.ErrInvalidDiscount)
}

func TestCreateSaleClampsNegativeTotal(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Discount:  dec("50.00"),
		Items:     []dto.SaleItemRequest{{ProductID: f.d.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.IsZero(), "total %s", sale.Total)
}

func TestRecalculateTotalIsIdempotent(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// drift the stored total away from its items
	require.NoError(t, f.db.Model(&entity.Sale{}).Where("id = ?", sale.ID).Update("total", dec("1.00")).Error)

	first, err := f.uc.RecalculateTotal(ctx, f.cashier.ID, sale.ID)
	require.NoError(t, err)
	assert.True(t, dec("22.50").Equal(first.Total))

	second, err := f.uc.RecalculateTotal(ctx, f.cashier.ID, sale.ID)
	require.NoError(t, err)
	assert.True(t, first.Total.Equal(second.Total))

	assert.Equal(t, []string{events.SaleCreated, events.SaleUpdated}, f.publisher.names())

	var recalcs int64
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionSaleRecalculate).Count(&recalcs).Error)
	assert.Equal(t, int64(1), recalcs)
}

func TestRecalculateTotalUnknownSale(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.RecalculateTotal(context.Background(), f.cashier.ID, 42)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestUpdateSaleReplacesItems(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)

	updated, err := f.uc.UpdateSale(ctx, f.cashier.ID, sale.ID, &dto.UpdateSaleRequest{
		PatientID:    f.patient.ID,
		Discount:     dec("10"),
		DiscountType: string(entity.DiscountPercent),
		Items:        []dto.UpdateSaleItemRequest{{ProductID: f.d.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, f.d.ID, updated.Items[0].ProductID)
	assert.True(t, dec("12.00").Equal(updated.Items[0].Price))
	assert.True(t, dec("10.80").Equal(updated.Total), "total %s", updated.Total)
	assert.Equal(t, int64(1), f.count(t, &entity.SaleItem{}))
}

func TestUpdateSaleKeepsExplicitPrice(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.d.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	price := dec("7.25")
	updated, err := f.uc.UpdateSale(ctx, f.cashier.ID, sale.ID, &dto.UpdateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.UpdateSaleItemRequest{{ProductID: f.d.ID, Quantity: 2, Price: &price}},
	})
	require.NoError(t, err)
	assert.True(t, dec("7.25").Equal(updated.Total))
}

func TestDeleteSaleRemovesItems(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteSale(ctx, f.cashier.ID, sale.ID))
	assert.Zero(t, f.count(t, &entity.Sale{}))
	assert.Zero(t, f.count(t, &entity.SaleItem{}))

	assert.ErrorIs(t, f.uc.DeleteSale(ctx, f.cashier.ID, sale.ID), ErrSaleNotFound)
}

func TestExportSalesWritesCSV(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.uc.ExportSales(ctx, &dto.SaleListQuery{}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Jane Doe")
	assert.Contains(t, lines[1], "22.5")
}

func TestCreateSaleRejectsDiscountFinerThanCents(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID:    f.patient.ID,
		Discount:     dec("12.345"),
		DiscountType: string(entity.DiscountPercent),
		Items:        []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 20}},
	})
	require.ErrorIs(t, err, pricing.ErrInvalidDiscount)
	assert.Zero(t, f.count(t, &entity.Sale{}))
	assert.Empty(t, f.publisher.names())
}

func TestRecalculateTotalReproducesCreationTotal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID:    f.patient.ID,
		Discount:     dec("12.34"),
		DiscountType: string(entity.DiscountPercent),
		Items:        []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 20}},
	})
	require.NoError(t, err)
	// 202.50 - 24.99
	assert.True(t, dec("177.51").Equal(sale.Total), "total %s", sale.Total)

	recalc, err := f.uc.RecalculateTotal(ctx, f.cashier.ID, sale.ID)
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(recalc.Total), "created %s, recalculated %s", sale.Total, recalc.Total)
	assert.Equal(t, []string{events.SaleCreated}, f.publisher.names())
}

func TestUpdateSaleRejectsItemPriceFinerThanCents(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.uc.CreateSale(ctx, f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.d.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	price := dec("7.255")
	_, err = f.uc.UpdateSale(ctx, f.cashier.ID, sale.ID, &dto.UpdateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.UpdateSaleItemRequest{{ProductID: f.d.ID, Quantity: 1, Price: &price}},
	})
	require.ErrorIs(t, err, ErrInvalidItemPrice)

	stored, err := f.uc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, dec("4.00").Equal(stored.Total))
}

type unreadableSaleRepo struct {
	repository.SaleRepository
}

func (unreadableSaleRepo) FindByID(context.Context, *gorm.DB, int64) (*entity.Sale, error) {
	return nil, errors.New("connection reset")
}

func TestCreateSaleAnswersFromWrittenRowsWhenReloadFails(t *testing.T) {
	f := newSaleFixture(t)
	uc := NewSaleUsecase(f.db, newTestLogger(), pricing.Clamp,
		unreadableSaleRepo{repoimpl.NewSaleRepository()},
		repoimpl.NewProductRepository(),
		repoimpl.NewPatientRepository(),
		repoimpl.NewSalesAgentRepository(),
		repoimpl.NewUserRepository(),
		newTestAuditService(f.db),
		f.publisher,
	)

	sale, err := uc.CreateSale(context.Background(), f.cashier.ID, &dto.CreateSaleRequest{
		PatientID: f.patient.ID,
		Items:     []dto.SaleItemRequest{{ProductID: f.a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.NotZero(t, sale.ID)
	assert.True(t, dec("22.50").Equal(sale.Total))
	require.Len(t, sale.Items, 2)
	assert.Equal(t, int64(1), f.count(t, &entity.Sale{}))
	assert.Equal(t, []string{events.SaleCreated}, f.publisher.names())

	var logs int64
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionSaleCreate).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}
