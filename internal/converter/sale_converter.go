package converter

import (
	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/domain/entity"
)

// SaleToResponse converts a Sale entity to SaleResponse DTO.
// Names are filled from whichever relations are loaded.
func SaleToResponse(sale *entity.Sale) *dto.SaleResponse {
	if sale == nil {
		return nil
	}

	resp := &dto.SaleResponse{
		ID:           sale.ID,
		PatientID:    sale.PatientID,
		SalesAgentID: sale.SalesAgentID,
		CashierID:    sale.CashierID,
		Total:        sale.Total,
		Discount:     sale.Discount,
		DiscountType: string(sale.DiscountType),
		Items:        SaleItemsToResponses(sale.Items),
		CreatedAt:    sale.CreatedAt,
		UpdatedAt:    sale.UpdatedAt,
	}
	if sale.Patient != nil {
		resp.PatientName = sale.Patient.FullName
	}
	if sale.SalesAgent != nil {
		resp.SalesAgentName = sale.SalesAgent.Name
	}
	if sale.Cashier != nil {
		resp.CashierName = sale.Cashier.FullName
	}
	return resp
}

func SalesToResponses(sales []entity.Sale) []dto.SaleResponse {
	responses := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		responses[i] = *SaleToResponse(&sales[i])
	}
	return responses
}

func SaleItemsToResponses(items []entity.SaleItem) []dto.SaleItemResponse {
	responses := make([]dto.SaleItemResponse, len(items))
	for i, item := range items {
		responses[i] = dto.SaleItemResponse{
			ID:                    item.ID,
			ProductID:             item.ProductID,
			Quantity:              item.Quantity,
			Price:                 item.Price,
			IsSupplementary:       item.IsSupplementary,
			SupplementaryParentID: item.SupplementaryParentID,
		}
		if item.Product != nil {
			responses[i].ProductName = item.Product.Name
		}
	}
	return responses
}

// SaleToExportRow flattens a sale for CSV export
func SaleToExportRow(sale *entity.Sale) *dto.SaleExportRow {
	row := &dto.SaleExportRow{
		ID:           sale.ID,
		CreatedAt:    sale.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		PatientID:    sale.PatientID,
		CashierID:    sale.CashierID,
		ItemCount:    len(sale.Items),
		Discount:     sale.Discount.StringFixed(2),
		DiscountType: string(sale.DiscountType),
		Total:        sale.Total.StringFixed(2),
	}
	if sale.Patient != nil {
		row.PatientName = sale.Patient.FullName
	}
	if sale.SalesAgent != nil {
		row.SalesAgent = sale.SalesAgent.Name
	}
	return row
}
