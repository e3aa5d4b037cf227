package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

// ProductToResponse converts a Product entity and its supplementary link ids to ProductResponse DTO
func ProductToResponse(product *entity.Product, supplementaryIDs []int64) *dto.ProductResponse {
	if product == nil {
		return nil
	}
	if supplementaryIDs == nil {
		supplementaryIDs = []int64{}
	}

	return &dto.ProductResponse{
		ID:                product.ID,
		Name:              product.Name,
		Description:       product.Description,
		Price:             product.Price,
		Category:          product.Category,
		IsSupplementary:   product.IsSupplementary,
		ParentProductID:   product.ParentProductID,
		CanSellStandalone: product.CanSellStandalone,
		IsActive:          product.IsActive,
		SupplementaryIDs:  supplementaryIDs,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
