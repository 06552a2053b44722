package handler

import (
	"errors"
	"net/http"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"
	"medical-tourism-concierge/pkg/validator"

	"github.com/google/uuid"
)

var feeFilterKeys = []string{"hospital_id", "department", "currency"}

type FeeHandler struct {
	feeUsecase usecase.FeeUsecase
	validator  *validator.CustomValidator
}

func NewFeeHandler(feeUsecase usecase.FeeUsecase, validator *validator.CustomValidator) *FeeHandler {
	return &FeeHandler{
		feeUsecase: feeUsecase,
		validator:  validator,
	}
}

// ListFees
// @Summary List treatment fees
// @Tags Fees
// @Produce json
// @Param q query string false "Search treatment and department"
// @Param hospital_id query string false "Hospital filter"
// @Param department query string false "Department filter"
// @Param currency query string false "Currency filter"
// @Param sort query string false "min_price, max_price or treatment"
// @Success 200 {object} response.Response
// @Router /fees [get]
func (h *FeeHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, feeFilterKeys...)

	fees, total, err := h.feeUsecase.List(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get fees")
		return
	}

	writeList(w, "Fees retrieved successfully", fees, q, total)
}

// QuoteFee
// @Summary Price a fee, optionally with a promotion
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Param promotion_id query string false "Promotion ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fees/{id}/quote [get]
func (h *FeeHandler) QuoteFee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "fee")
	if !ok {
		return
	}

	var promotionID *uuid.UUID
	if raw := r.URL.Query().Get("promotion_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid promotion ID", nil)
			return
		}
		promotionID = &parsed
	}

	quote, err := h.feeUsecase.Quote(r.Context(), id, promotionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrFeeNotFound):
			response.NotFound(w, "Fee not found")
		case errors.Is(err, usecase.ErrPromotionNotFound):
			response.NotFound(w, "Promotion not found")
		default:
			response.InternalServerError(w, "Failed to quote fee")
		}
		return
	}

	response.Success(w, http.StatusOK, "Quote calculated successfully", quote)
}

func (h *FeeHandler) CreateFee(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFeeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	fee, err := h.feeUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeFeeError(w, err, "Failed to create fee")
		return
	}

	response.Success(w, http.StatusCreated, "Fee created successfully", fee)
}

func (h *FeeHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "fee")
	if !ok {
		return
	}

	var req dto.UpdateFeeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	fee, err := h.feeUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeFeeError(w, err, "Failed to update fee")
		return
	}

	response.Success(w, http.StatusOK, "Fee updated successfully", fee)
}

func (h *FeeHandler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "fee")
	if !ok {
		return
	}

	if err := h.feeUsecase.Delete(r.Context(), id); err != nil {
		h.writeFeeError(w, err, "Failed to delete fee")
		return
	}

	response.Success(w, http.StatusOK, "Fee deleted successfully", nil)
}

func (h *FeeHandler) writeFeeError(w http.ResponseWriter, err error, fallback string) {
	if writeStateError(w, err) {
		return
	}
	switch {
	case errors.Is(err, usecase.ErrFeeNotFound):
		response.NotFound(w, "Fee not found")
	case errors.Is(err, usecase.ErrHospitalNotFound):
		response.NotFound(w, "Hospital not found")
	case errors.Is(err, entity.ErrInvalidPriceRange):
		response.BadRequest(w, "min_price must not exceed max_price")
	default:
		response.InternalServerError(w, fallback)
	}
}
