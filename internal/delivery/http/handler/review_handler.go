package handler

import (
	"errors"
	"net/http"

	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"
	"medical-tourism-concierge/pkg/validator"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

// ListReviews
// @Summary List reviews of a hospital
// @Tags Hospitals
// @Produce json
// @Param id path string true "Hospital ID"
// @Param rating query int false "Rating filter"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hospitals/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := pathUUID(w, r, "id", "hospital")
	if !ok {
		return
	}

	q := listQuery(r, "rating")
	reviews, total, err := h.reviewUsecase.List(r.Context(), hospitalID, q)
	if err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		writeListError(w, err, "Failed to get reviews")
		return
	}

	writeList(w, "Reviews retrieved successfully", reviews, q, total)
}

// CreateReview
// @Summary Review a hospital
// @Description Each user can review a hospital once. The hospital rating is recomputed.
// @Tags Hospitals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Hospital ID"
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /hospitals/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	hospitalID, ok := pathUUID(w, r, "id", "hospital")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	review, err := h.reviewUsecase.Create(r.Context(), userID, hospitalID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrHospitalNotFound):
			response.NotFound(w, "Hospital not found")
		case errors.Is(err, usecase.ErrAlreadyReviewed):
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}
