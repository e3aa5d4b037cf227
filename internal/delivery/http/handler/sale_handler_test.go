package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-backoffice/internal/delivery/dto"
	"clinic-backoffice/internal/pricing"
	"clinic-backoffice/internal/usecase"
	"clinic-backoffice/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSaleUsecase struct {
	usecase.SaleUsecase
	created   *dto.CreateSaleRequest
	createErr error
	query     *dto.SaleListQuery
}

func (s *stubSaleUsecase) CreateSale(_ context.Context, _ int64, req *dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	s.created = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.SaleResponse{ID: 7, Total: decimal.RequireFromString("22.50")}, nil
}

func (s *stubSaleUsecase) RecalculateTotal(_ context.Context, _, id int64) (*dto.RecalculateResponse, error) {
	if id != 7 {
		return nil, usecase.ErrSaleNotFound
	}
	return &dto.RecalculateResponse{ID: id, Total: decimal.RequireFromString("22.50")}, nil
}

func (s *stubSaleUsecase) ExportSales(_ context.Context, query *dto.SaleListQuery, w io.Writer) error {
	s.query = query
	_, err := io.WriteString(w, "id,total\n7,22.50\n")
	return err
}

func newSaleRouter(uc usecase.SaleUsecase) *mux.Router {
	h := NewSaleHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/sales", h.CreateSale).Methods(http.MethodPost)
	r.HandleFunc("/sales/export", h.ExportSales).Methods(http.MethodGet)
	r.HandleFunc("/sales/{id}/recalculate", h.RecalculateTotal).Methods(http.MethodPost)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateSaleHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"patient_id":1,"items":[{"product_id":1,"quantity":2}]}`, nil, http.StatusCreated},
		{"malformed", `{"patient_id":`, nil, http.StatusBadRequest},
		{"no items", `{"patient_id":1,"items":[]}`, nil, http.StatusBadRequest},
		{"bad discount type", `{"patient_id":1,"discount_type":"bogo","items":[{"product_id":1}]}`, nil, http.StatusBadRequest},
		{"unknown product", `{"patient_id":1,"items":[{"product_id":99}]}`, fmt.Errorf("%w: id 99", pricing.ErrProductNotFound), http.StatusNotFound},
		{"unknown patient", `{"patient_id":5,"items":[{"product_id":1}]}`, usecase.ErrPatientNotFound, http.StatusNotFound},
		{"invalid discount", `{"patient_id":1,"discount":"150","discount_type":"percent","items":[{"product_id":1}]}`, pricing.ErrInvalidDiscount, http.StatusBadRequest},
		{"storage failure", `{"patient_id":1,"items":[{"product_id":1}]}`, fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubSaleUsecase{createErr: tt.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(tt.body))

			newSaleRouter(uc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantStatus < 300, body["success"])
		})
	}
}

func TestCreateSaleHandlerDoesNotLeakStorageErrors(t *testing.T) {
	uc := &stubSaleUsecase{createErr: fmt.Errorf("pq: password authentication failed")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"patient_id":1,"items":[{"product_id":1}]}`))

	newSaleRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRecalculateHandler(t *testing.T) {
	r := newSaleRouter(&stubSaleUsecase{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/7/recalculate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "22.5", data["total"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/8/recalculate", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/abc/recalculate", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportSalesHandler(t *testing.T) {
	uc := &stubSaleUsecase{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales/export?patient_id=3&from=2026-10-01&to=2026-10-14", nil)

	newSaleRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "id,total\n7,22.50\n", rec.Body.String())

	require.NotNil(t, uc.query.PatientID)
	assert.Equal(t, int64(3), *uc.query.PatientID)
	require.NotNil(t, uc.query.To)
	assert.Equal(t, "2026-10-15", uc.query.To.Format("2006-01-02"))
}

func TestExportSalesHandlerRejectsBadFilter(t *testing.T) {
	rec := httptest.NewRecorder()
	newSaleRouter(&stubSaleUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/export?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
