package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/delivery/http/middleware"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/response"
	"clinic-backoffice/pkg/validator"
)

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	validator      *validator.CustomValidator
}

func NewProductHandler(productUsecase usecase.ProductUsecase, validator *validator.CustomValidator) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
	}
}

func writeProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		response.NotFound(w, "Product not found")
	case errors.Is(err, usecase.ErrParentProductNotFound),
		errors.Is(err, usecase.ErrSupplementaryNotFound),
		errors.Is(err, usecase.ErrSelfReference),
		errors.Is(err, usecase.ErrInvalidPrice):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrProductInUse):
		response.Conflict(w, "Product is referenced by sales")
	default:
		response.InternalServerError(w, fallback)
	}
}

// Create handles product creation
// @Summary Create a new product
// @Description Create a product, optionally linked to the products it supplements
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Create Product Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	product, err := h.productUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		writeProductError(w, err, "Failed to create product")
		return
	}

	response.Success(w, http.StatusCreated, "Product created successfully", product)
}

// GetAll handles getting all products
// @Summary Get all products
// @Description Get products with filters and pagination
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Name search"
// @Param is_active query bool false "Active flag"
// @Param supplementary query bool false "Only products that supplement another"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	query := &dto.ProductListQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	var err error
	if query.IsActive, err = queryBool(r, "is_active"); err != nil {
		response.BadRequest(w, "Invalid is_active filter")
		return
	}
	if query.Supplementary, err = queryBool(r, "supplementary"); err != nil {
		response.BadRequest(w, "Invalid supplementary filter")
		return
	}
	if query.Standalone, err = queryBool(r, "standalone"); err != nil {
		response.BadRequest(w, "Invalid standalone filter")
		return
	}

	products, total, err := h.productUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get products")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Products retrieved successfully", products, response.NewMeta(page, limit, total))
}

// GetByID handles getting a product by ID
// @Summary Get product by ID
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	product, err := h.productUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeProductError(w, err, "Failed to get product")
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	product, err := h.productUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		writeProductError(w, err, "Failed to update product")
		return
	}

	response.Success(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	if err := h.productUsecase.Delete(r.Context(), actorID, id); err != nil {
		writeProductError(w, err, "Failed to delete product")
		return
	}

	response.Success(w, http.StatusOK, "Product deleted successfully", nil)
}
