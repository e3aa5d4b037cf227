package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/pricing"
	"clinic-backoffice/internal/service"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCashierNotFound  = errors.New("cashier not found")
	ErrInvalidItemPrice = errors.New("item price must be a non-negative amount with at most two decimals")
)

type SaleUsecase interface {
	CreateSale(ctx context.Context, actorID int64, req *dto.CreateSaleRequest) (*dto.SaleResponse, error)
	UpdateSale(ctx context.Context, actorID, id int64, req *dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	RecalculateTotal(ctx context.Context, actorID, id int64) (*dto.RecalculateResponse, error)
	GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, query *dto.SaleListQuery) ([]dto.SaleResponse, int64, error)
	DeleteSale(ctx context.Context, actorID, id int64) error
	ExportSales(ctx context.Context, query *dto.SaleListQuery, w io.Writer) error
}

type saleUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	policy         pricing.NegativeTotalPolicy
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	patientRepo    repository.PatientRepository
	salesAgentRepo repository.SalesAgentRepository
	userRepo       repository.UserRepository
	auditService   service.AuditService
	publisher      events.Publisher
}

func NewSaleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	policy pricing.NegativeTotalPolicy,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	patientRepo repository.PatientRepository,
	salesAgentRepo repository.SalesAgentRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	publisher events.Publisher,
) SaleUsecase {
	return &saleUsecase{
		db:             db,
		log:            log,
		policy:         policy,
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		patientRepo:    patientRepo,
		salesAgentRepo: salesAgentRepo,
		userRepo:       userRepo,
		auditService:   auditService,
		publisher:      publisher,
	}
}

// txProductLookup serves pricing from the same transaction the sale is written in.
type txProductLookup struct {
	tx   *gorm.DB
	repo repository.ProductRepository
}

func (l *txProductLookup) FindProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return l.repo.FindByID(ctx, l.tx, id)
}

func (l *txProductLookup) FindSupplementaries(ctx context.Context, parentID int64) ([]entity.Product, error) {
	return l.repo.FindSupplementaries(ctx, l.tx, parentID)
}

func discountFrom(amount decimal.Decimal, discountType string) (pricing.Discount, error) {
	if discountType == "" {
		discountType = string(entity.DiscountFixed)
	}
	d := pricing.Discount{Amount: amount, Type: entity.DiscountType(discountType)}
	if err := d.Validate(); err != nil {
		return pricing.Discount{}, err
	}
	return d, nil
}

// checkParties verifies that the referenced patient and sales agent exist.
func (u *saleUsecase) checkParties(ctx context.Context, tx *gorm.DB, patientID int64, salesAgentID *int64) error {
	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	if salesAgentID != nil {
		agent, err := u.salesAgentRepo.FindByID(ctx, tx, *salesAgentID)
		if err != nil {
			u.log.Warnf("Failed to find sales agent: %+v", err)
			return err
		}
		if agent == nil {
			return ErrSalesAgentNotFound
		}
	}
	return nil
}

// CreateSale prices the requested lines and stores the sale header and its
// items in one transaction. Nothing is written when any product is missing.
func (u *saleUsecase) CreateSale(ctx context.Context, actorID int64, req *dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	discount, err := discountFrom(req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}

	cashierID := actorID
	if req.CashierID != nil {
		cashierID = *req.CashierID
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.checkParties(ctx, tx, req.PatientID, req.SalesAgentID); err != nil {
		return nil, err
	}

	cashier, err := u.userRepo.FindByID(ctx, tx, cashierID)
	if err != nil {
		u.log.Warnf("Failed to find cashier: %+v", err)
		return nil, err
	}
	if cashier == nil {
		return nil, ErrCashierNotFound
	}

	lines := make([]pricing.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = pricing.LineInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	engine := pricing.NewEngine(&txProductLookup{tx: tx, repo: u.productRepo}, u.policy)
	quote, err := engine.Price(ctx, lines, discount)
	if err != nil {
		if !errors.Is(err, pricing.ErrProductNotFound) {
			u.log.Warnf("Failed to price sale: %+v", err)
		}
		return nil, err
	}

	sale := &entity.Sale{
		PatientID:    req.PatientID,
		SalesAgentID: req.SalesAgentID,
		CashierID:    cashierID,
		Total:        quote.Total,
		Discount:     discount.Amount,
		DiscountType: discount.Type,
	}

	if err := u.saleRepo.Create(ctx, tx, sale); err != nil {
		u.log.Warnf("Failed to create sale: %+v", err)
		return nil, err
	}

	for i := range quote.Items {
		quote.Items[i].SaleID = sale.ID
	}
	if err := u.saleRepo.CreateItems(ctx, tx, quote.Items); err != nil {
		u.log.Warnf("Failed to create sale items: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := u.reload(ctx, sale, quote.Items)

	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionSaleCreate, "sale", idString(sale.ID), resp)
	u.publisher.Publish(events.SaleCreated, resp)
	return resp, nil
}

// UpdateSale replaces the header fields and the full item set. Items are
// stored as given, without supplementary expansion; an item without a price
// is charged the product's current unit price times its quantity.
func (u *saleUsecase) UpdateSale(ctx context.Context, actorID, id int64, req *dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	discount, err := discountFrom(req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.saleRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sale: %+v", err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	oldValue := converter.SaleToResponse(sale)

	if err := u.checkParties(ctx, tx, req.PatientID, req.SalesAgentID); err != nil {
		return nil, err
	}

	lookup := &txProductLookup{tx: tx, repo: u.productRepo}
	items := make([]entity.SaleItem, 0, len(req.Items))
	for _, in := range req.Items {
		product, err := lookup.FindProduct(ctx, in.ProductID)
		if err != nil {
			u.log.Warnf("Failed to find product: %+v", err)
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: id %d", pricing.ErrProductNotFound, in.ProductID)
		}

		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}

		var price decimal.Decimal
		if in.Price != nil {
			if in.Price.IsNegative() || !pricing.WholeCents(*in.Price) {
				return nil, ErrInvalidItemPrice
			}
			price = *in.Price
		} else {
			price = product.Price.Mul(decimal.NewFromInt(int64(qty)))
		}

		items = append(items, entity.SaleItem{
			SaleID:                sale.ID,
			ProductID:             product.ID,
			Quantity:              qty,
			Price:                 price,
			IsSupplementary:       in.IsSupplementary,
			SupplementaryParentID: in.SupplementaryParentID,
		})
	}

	if err := u.saleRepo.DeleteItems(ctx, tx, sale.ID); err != nil {
		u.log.Warnf("Failed to delete sale items: %+v", err)
		return nil, err
	}
	if err := u.saleRepo.CreateItems(ctx, tx, items); err != nil {
		u.log.Warnf("Failed to create sale items: %+v", err)
		return nil, err
	}

	quote := pricing.Recalculate(items, discount, u.policy)
	sale.PatientID = req.PatientID
	sale.SalesAgentID = req.SalesAgentID
	sale.Discount = discount.Amount
	sale.DiscountType = discount.Type
	sale.Total = quote.Total

	if err := u.saleRepo.Update(ctx, tx, sale); err != nil {
		u.log.Warnf("Failed to update sale: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := u.reload(ctx, sale, items)

	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionSaleUpdate, "sale", idString(sale.ID), oldValue, resp)
	u.publisher.Publish(events.SaleUpdated, resp)
	return resp, nil
}

// RecalculateTotal re-derives the stored total from the persisted items and
// discount. Running it twice yields the same total.
func (u *saleUsecase) RecalculateTotal(ctx context.Context, actorID, id int64) (*dto.RecalculateResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.saleRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sale: %+v", err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	items, err := u.saleRepo.FindItems(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sale items: %+v", err)
		return nil, err
	}

	discount := pricing.Discount{Amount: sale.Discount, Type: sale.DiscountType}
	quote := pricing.Recalculate(items, discount, u.policy)

	if err := u.saleRepo.UpdateTotal(ctx, tx, id, quote.Total); err != nil {
		u.log.Warnf("Failed to update sale total: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := &dto.RecalculateResponse{ID: id, Total: quote.Total}
	if !sale.Total.Equal(quote.Total) {
		u.log.Infof("Sale %d total recalculated from %s to %s", id, sale.Total, quote.Total)
		u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionSaleRecalculate, "sale", idString(id),
			map[string]decimal.Decimal{"total": sale.Total}, map[string]decimal.Decimal{"total": quote.Total})
		u.publisher.Publish(events.SaleUpdated, resp)
	}
	return resp, nil
}

// reload reads a committed sale back with its relations. The sale is already
// stored, so a failed read falls back to the entities written in the transaction.
func (u *saleUsecase) reload(ctx context.Context, sale *entity.Sale, items []entity.SaleItem) *dto.SaleResponse {
	resp, err := u.GetSale(ctx, sale.ID)
	if err == nil {
		return resp
	}
	u.log.Warnf("Failed to reload sale %d after commit: %+v", sale.ID, err)
	sale.Items = items
	return converter.SaleToResponse(sale)
}

func (u *saleUsecase) GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := u.saleRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find sale: %+v", err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return converter.SaleToResponse(sale), nil
}

func saleFilterFrom(query *dto.SaleListQuery) *entity.SaleFilter {
	return &entity.SaleFilter{
		PatientID:    query.PatientID,
		SalesAgentID: query.SalesAgentID,
		CashierID:    query.CashierID,
		From:         query.From,
		To:           query.To,
	}
}

func (u *saleUsecase) ListSales(ctx context.Context, query *dto.SaleListQuery) ([]dto.SaleResponse, int64, error) {
	_, limit, offset := paginate(query.Page, query.Limit)

	sales, total, err := u.saleRepo.FindAll(ctx, u.db, saleFilterFrom(query), limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find sales: %+v", err)
		return nil, 0, err
	}
	return converter.SalesToResponses(sales), total, nil
}

func (u *saleUsecase) DeleteSale(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	sale, err := u.saleRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find sale: %+v", err)
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}

	if err := u.saleRepo.DeleteItems(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete sale items: %+v", err)
		return err
	}
	if _, err := u.saleRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete sale: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionSaleDelete, "sale", idString(id), converter.SaleToResponse(sale))
	u.publisher.Publish(events.SaleDeleted, map[string]int64{"id": id})
	return nil
}

// ExportSales writes every sale matching query as CSV. Paging is ignored.
func (u *saleUsecase) ExportSales(ctx context.Context, query *dto.SaleListQuery, w io.Writer) error {
	sales, _, err := u.saleRepo.FindAll(ctx, u.db, saleFilterFrom(query), 0, 0)
	if err != nil {
		u.log.Warnf("Failed to find sales for export: %+v", err)
		return err
	}

	rows := make([]*dto.SaleExportRow, len(sales))
	for i := range sales {
		rows[i] = converter.SaleToExportRow(&sales[i])
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		u.log.Warnf("Failed to write sales export: %+v", err)
		return err
	}
	return nil
}
