package usecase

import (
	"context"
	"errors"

	"clinic-backoffice/internal/converter"
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
	"clinic-backoffice/internal/domain/repository"
	"clinic-backoffice/internal/events"
	"clinic-backoffice/internal/pricing"
	"clinic-backoffice/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrParentProductNotFound = errors.New("parent product not found")
	ErrSupplementaryNotFound = errors.New("supplementary product not found")
	ErrSelfReference         = errors.New("product cannot reference itself")
	ErrInvalidPrice          = errors.New("price must be a non-negative amount with at most two decimals")
	ErrProductInUse          = errors.New("product is referenced by sales")
)

type ProductUsecase interface {
	Create(ctx context.Context, actorID int64, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetAll(ctx context.Context, query *dto.ProductListQuery) ([]dto.ProductResponse, int64, error)
	GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Update(ctx context.Context, actorID, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type productUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	productRepo  repository.ProductRepository
	auditService service.AuditService
	publisher    events.Publisher
}

func NewProductUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	productRepo repository.ProductRepository,
	auditService service.AuditService,
	publisher events.Publisher,
) ProductUsecase {
	return &productUsecase{
		db:           db,
		log:          log,
		productRepo:  productRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

type productInput struct {
	name              string
	description       string
	price             decimal.Decimal
	category          string
	isSupplementary   bool
	parentProductID   *int64
	canSellStandalone *bool
	isActive          *bool
	supplementaryIDs  []int64
}

func (u *productUsecase) Create(ctx context.Context, actorID int64, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in := productInput{
		name:              req.Name,
		description:       req.Description,
		price:             req.Price,
		category:          req.Category,
		isSupplementary:   req.IsSupplementary,
		parentProductID:   req.ParentProductID,
		canSellStandalone: req.CanSellStandalone,
		isActive:          req.IsActive,
		supplementaryIDs:  req.SupplementaryIDs,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product := &entity.Product{CanSellStandalone: true, IsActive: true}
	supplementaryIDs, err := u.apply(ctx, tx, product, in)
	if err != nil {
		return nil, err
	}

	if err := u.productRepo.Create(ctx, tx, product); err != nil {
		u.log.Warnf("Failed to create product: %+v", err)
		return nil, err
	}

	if err := u.productRepo.ReplaceSupplementaries(ctx, tx, product.ID, supplementaryIDs); err != nil {
		u.log.Warnf("Failed to link supplementary products: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.ProductToResponse(product, supplementaryIDs)
	u.auditService.LogCreate(ctx, &actorID, entity.AuditActionProductCreate, "product", idString(product.ID), resp)
	u.publisher.Publish(events.ProductCreated, resp)
	return resp, nil
}

func (u *productUsecase) GetAll(ctx context.Context, query *dto.ProductListQuery) ([]dto.ProductResponse, int64, error) {
	_, limit, offset := paginate(query.Page, query.Limit)

	filter := &entity.ProductFilter{
		Category:      query.Category,
		Search:        query.Search,
		IsActive:      query.IsActive,
		Supplementary: query.Supplementary,
		Standalone:    query.Standalone,
	}

	products, total, err := u.productRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find products: %+v", err)
		return nil, 0, err
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		ids, err := u.productRepo.FindSupplementaryIDs(ctx, u.db, products[i].ID)
		if err != nil {
			u.log.Warnf("Failed to find supplementary links: %+v", err)
			return nil, 0, err
		}
		responses = append(responses, *converter.ProductToResponse(&products[i], ids))
	}

	return responses, total, nil
}

func (u *productUsecase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := u.productRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	ids, err := u.productRepo.FindSupplementaryIDs(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find supplementary links: %+v", err)
		return nil, err
	}

	return converter.ProductToResponse(product, ids), nil
}

// Update replaces the product's fields and its whole supplementary link set.
func (u *productUsecase) Update(ctx context.Context, actorID, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	in := productInput{
		name:              req.Name,
		description:       req.Description,
		price:             req.Price,
		category:          req.Category,
		isSupplementary:   req.IsSupplementary,
		parentProductID:   req.ParentProductID,
		canSellStandalone: req.CanSellStandalone,
		isActive:          req.IsActive,
		supplementaryIDs:  req.SupplementaryIDs,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product, err := u.productRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	oldIDs, err := u.productRepo.FindSupplementaryIDs(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find supplementary links: %+v", err)
		return nil, err
	}
	oldValue := converter.ProductToResponse(product, oldIDs)

	supplementaryIDs, err := u.apply(ctx, tx, product, in)
	if err != nil {
		return nil, err
	}

	if err := u.productRepo.Update(ctx, tx, product); err != nil {
		u.log.Warnf("Failed to update product: %+v", err)
		return nil, err
	}

	if err := u.productRepo.ReplaceSupplementaries(ctx, tx, product.ID, supplementaryIDs); err != nil {
		u.log.Warnf("Failed to link supplementary products: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	resp := converter.ProductToResponse(product, supplementaryIDs)
	u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionProductUpdate, "product", idString(product.ID), oldValue, resp)
	u.publisher.Publish(events.ProductUpdated, resp)
	return resp, nil
}

// Delete removes the product together with every supplementary link it takes part in.
func (u *productUsecase) Delete(ctx context.Context, actorID, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	product, err := u.productRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := u.productRepo.DeleteLinks(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete supplementary links: %+v", err)
		return err
	}

	if err := u.productRepo.Delete(ctx, tx, id); err != nil {
		if isForeignKeyError(err, "product") {
			return ErrProductInUse
		}
		u.log.Warnf("Failed to delete product: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	oldValue := converter.ProductToResponse(product, nil)
	u.auditService.LogDelete(ctx, &actorID, entity.AuditActionProductDelete, "product", idString(id), oldValue)
	u.publisher.Publish(events.ProductDeleted, map[string]int64{"id": id})
	return nil
}

// apply validates in and copies it onto product. It returns the deduplicated
// supplementary ids to link. product.ID is zero for new products.
func (u *productUsecase) apply(ctx context.Context, tx *gorm.DB, product *entity.Product, in productInput) ([]int64, error) {
	if in.price.IsNegative() || !pricing.WholeCents(in.price) {
		return nil, ErrInvalidPrice
	}

	if in.parentProductID != nil {
		if product.ID != 0 && *in.parentProductID == product.ID {
			return nil, ErrSelfReference
		}
		parent, err := u.productRepo.FindByID(ctx, tx, *in.parentProductID)
		if err != nil {
			u.log.Warnf("Failed to find parent product: %+v", err)
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentProductNotFound
		}
	}

	ids := make([]int64, 0, len(in.supplementaryIDs))
	seen := make(map[int64]struct{}, len(in.supplementaryIDs))
	for _, id := range in.supplementaryIDs {
		if product.ID != 0 && id == product.ID {
			return nil, ErrSelfReference
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		count, err := u.productRepo.CountByIDs(ctx, tx, ids)
		if err != nil {
			u.log.Warnf("Failed to count supplementary products: %+v", err)
			return nil, err
		}
		if count != int64(len(ids)) {
			return nil, ErrSupplementaryNotFound
		}
	}

	product.Name = in.name
	product.Description = in.description
	product.Price = in.price
	product.Category = in.category
	product.IsSupplementary = in.isSupplementary
	product.ParentProductID = in.parentProductID
	if in.canSellStandalone != nil {
		product.CanSellStandalone = *in.canSellStandalone
	}
	if in.isActive != nil {
		product.IsActive = *in.isActive
	}

	return ids, nil
}
