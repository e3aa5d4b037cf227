package usecase

import (
	"context"
	"testing"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/events"
	repoimpl "clinic-backoffice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productFixture struct {
	uc        ProductUsecase
	db        *gorm.DB
	publisher *recordingPublisher
	actor     int64
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := newTestDB(t)
	role := seedRole(t, db, "catalog", "products.create", "products.update", "products.delete")
	f := &productFixture{
		db:        db,
		publisher: &recordingPublisher{},
		actor:     seedUser(t, db, role.ID, "catalog@clinic.test").ID,
	}
	f.uc = NewProductUsecase(db, newTestLogger(), repoimpl.NewProductRepository(), newTestAuditService(db), f.publisher)
	return f
}

func linkCount(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entity.SupplementaryLink{}).
		Where("parent_product_id = ? OR supplementary_product_id = ?", productID, productID).
		Count(&n).Error)
	return n
}

func TestCreateProductLinksDeduplicatedSupplementaries(t *testing.T) {
	f := newProductFixture(t)
	uc, db, publisher := f.uc, f.db, f.publisher
	ctx := context.Background()
	b := seedProduct(t, db, "B", "2.50", true)
	c := seedProduct(t, db, "C", "1.00", true)

	product, err := uc.Create(ctx, f.actor, &dto.CreateProductRequest{
		Name:             "Consultation",
		Price:            dec("10.00"),
		SupplementaryIDs: []int64{c.ID, b.ID, c.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, b.ID}, product.SupplementaryIDs)
	assert.True(t, product.CanSellStandalone)
	assert.True(t, product.IsActive)

	stored, err := uc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, b.ID}, stored.SupplementaryIDs)
	assert.Equal(t, []string{events.ProductCreated}, publisher.names())
}

func TestCreateProductValidation(t *testing.T) {
	f := newProductFixture(t)
	uc, db := f.uc, f.db
	existing := seedProduct(t, db, "A", "10.00", false)
	missing := int64(9999)

	tests := []struct {
		name string
		req  dto.CreateProductRequest
		want error
	}{
		{"negative price", dto.CreateProductRequest{Name: "X", Price: dec("-1")}, ErrInvalidPrice},
		{"price finer than cents", dto.CreateProductRequest{Name: "X", Price: dec("1.005")}, ErrInvalidPrice},
		{"unknown parent", dto.CreateProductRequest{Name: "X", Price: dec("1"), ParentProductID: &missing}, ErrParentProductNotFound},
		{"unknown supplementary", dto.CreateProductRequest{Name: "X", Price: dec("1"), SupplementaryIDs: []int64{existing.ID, missing}}, ErrSupplementaryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), f.actor, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var n int64
	require.NoError(t, db.Model(&entity.Product{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpdateProductRejectsSelfReference(t *testing.T) {
	f := newProductFixture(t)
	uc, db := f.uc, f.db
	ctx := context.Background()
	a := seedProduct(t, db, "A", "10.00", false)

	_, err := uc.Update(ctx, f.actor, a.ID, &dto.UpdateProductRequest{
		Name:             "A",
		Price:            dec("10.00"),
		SupplementaryIDs: []int64{a.ID},
	})
	assert.ErrorIs(t, err, ErrSelfReference)

	_, err = uc.Update(ctx, f.actor, a.ID, &dto.UpdateProductRequest{
		Name:            "A",
		Price:           dec("10.00"),
		ParentProductID: &a.ID,
	})
	assert.ErrorIs(t, err, ErrSelfReference)
	assert.Zero(t, linkCount(t, db, a.ID))
}

func TestUpdateProductReplacesLinks(t *testing.T) {
	f := newProductFixture(t)
	uc, db, publisher := f.uc, f.db, f.publisher
	ctx := context.Background()
	a := seedProduct(t, db, "A", "10.00", false)
	b := seedProduct(t, db, "B", "2.50", true)
	c := seedProduct(t, db, "C", "1.00", true)
	seedLink(t, db, a.ID, b.ID)

	updated, err := uc.Update(ctx, f.actor, a.ID, &dto.UpdateProductRequest{
		Name:             "A2",
		Price:            dec("12.00"),
		SupplementaryIDs: []int64{c.ID, c.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.True(t, dec("12.00").Equal(updated.Price))
	assert.Equal(t, []int64{c.ID}, updated.SupplementaryIDs)

	stored, err := uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, stored.SupplementaryIDs)

	assert.Equal(t, []string{events.ProductUpdated}, publisher.names())

	_, err = uc.Update(ctx, f.actor, 9999, &dto.UpdateProductRequest{Name: "X", Price: dec("1")})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductRemovesLinksBothWays(t *testing.T) {
	f := newProductFixture(t)
	uc, db, publisher := f.uc, f.db, f.publisher
	ctx := context.Background()
	a := seedProduct(t, db, "A", "10.00", false)
	b := seedProduct(t, db, "B", "2.50", true)
	c := seedProduct(t, db, "C", "1.00", true)
	seedLink(t, db, a.ID, b.ID)
	seedLink(t, db, b.ID, c.ID)

	require.NoError(t, uc.Delete(ctx, f.actor, b.ID))

	assert.Zero(t, linkCount(t, db, b.ID))
	assert.Zero(t, linkCount(t, db, a.ID))
	assert.Zero(t, linkCount(t, db, c.ID))

	_, err := uc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, f.actor, b.ID), ErrProductNotFound)
	assert.Equal(t, []string{events.ProductDeleted}, publisher.names())

	var logs int64
	require.NoError(t, db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionProductDelete).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}
