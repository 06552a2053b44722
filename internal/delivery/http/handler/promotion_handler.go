package handler

import (
	"errors"
	"net/http"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"
	"medical-tourism-concierge/pkg/validator"
)

var (
	promotionPublicFilterKeys = []string{"hospital_id"}
	promotionFilterKeys       = []string{"hospital_id", "status"}
)

type PromotionHandler struct {
	promotionUsecase usecase.PromotionUsecase
	validator        *validator.CustomValidator
}

func NewPromotionHandler(promotionUsecase usecase.PromotionUsecase, validator *validator.CustomValidator) *PromotionHandler {
	return &PromotionHandler{
		promotionUsecase: promotionUsecase,
		validator:        validator,
	}
}

// ListActivePromotions
// @Summary List promotions running today
// @Tags Promotions
// @Produce json
// @Param hospital_id query string false "Hospital filter"
// @Success 200 {object} response.Response
// @Router /promotions [get]
func (h *PromotionHandler) ListActivePromotions(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, promotionPublicFilterKeys...)

	promotions, total, err := h.promotionUsecase.ListActive(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get promotions")
		return
	}

	writeList(w, "Promotions retrieved successfully", promotions, q, total)
}

// ListPromotions
// @Summary List every promotion with its computed status
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "upcoming, active or expired"
// @Success 200 {object} response.Response
// @Router /admin/promotions [get]
func (h *PromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, promotionFilterKeys...)

	promotions, total, err := h.promotionUsecase.List(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get promotions")
		return
	}

	writeList(w, "Promotions retrieved successfully", promotions, q, total)
}

func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePromotionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	promotion, err := h.promotionUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writePromotionError(w, err, "Failed to create promotion")
		return
	}

	response.Success(w, http.StatusCreated, "Promotion created successfully", promotion)
}

func (h *PromotionHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "promotion")
	if !ok {
		return
	}

	var req dto.UpdatePromotionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	promotion, err := h.promotionUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writePromotionError(w, err, "Failed to update promotion")
		return
	}

	response.Success(w, http.StatusOK, "Promotion updated successfully", promotion)
}

func (h *PromotionHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "promotion")
	if !ok {
		return
	}

	if err := h.promotionUsecase.Delete(r.Context(), id); err != nil {
		h.writePromotionError(w, err, "Failed to delete promotion")
		return
	}

	response.Success(w, http.StatusOK, "Promotion deleted successfully", nil)
}

func (h *PromotionHandler) writePromotionError(w http.ResponseWriter, err error, fallback string) {
	if writeStateError(w, err) {
		return
	}
	switch {
	case errors.Is(err, usecase.ErrPromotionNotFound):
		response.NotFound(w, "Promotion not found")
	case errors.Is(err, usecase.ErrHospitalNotFound):
		response.NotFound(w, "Hospital not found")
	case errors.Is(err, usecase.ErrInvalidPromotionWindow):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
