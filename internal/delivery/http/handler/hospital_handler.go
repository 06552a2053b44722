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
	hospitalPublicFilterKeys = []string{"specialty", "city", "country"}
	hospitalFilterKeys       = []string{"specialty", "city", "country", "status"}
)

type HospitalHandler struct {
	hospitalUsecase usecase.HospitalUsecase
	validator       *validator.CustomValidator
}

func NewHospitalHandler(hospitalUsecase usecase.HospitalUsecase, validator *validator.CustomValidator) *HospitalHandler {
	return &HospitalHandler{
		hospitalUsecase: hospitalUsecase,
		validator:       validator,
	}
}

// ListHospitals returns active hospitals only.
// @Summary List hospitals
// @Tags Hospitals
// @Produce json
// @Param q query string false "Search name, specialty, city and address"
// @Param specialty query string false "Specialty filter"
// @Param city query string false "City filter"
// @Param country query string false "Country filter"
// @Param sort query string false "name, rating or created_at"
// @Success 200 {object} response.Response
// @Router /hospitals [get]
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, hospitalPublicFilterKeys...)

	hospitals, total, err := h.hospitalUsecase.ListPublic(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get hospitals")
		return
	}

	writeList(w, "Hospitals retrieved successfully", hospitals, q, total)
}

// ListAllHospitals is the admin view across every status.
func (h *HospitalHandler) ListAllHospitals(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, hospitalFilterKeys...)

	hospitals, total, err := h.hospitalUsecase.List(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get hospitals")
		return
	}

	writeList(w, "Hospitals retrieved successfully", hospitals, q, total)
}

// GetHospital
// @Summary Get a hospital with its fees
// @Tags Hospitals
// @Produce json
// @Param id path string true "Hospital ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hospitals/{id} [get]
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "hospital")
	if !ok {
		return
	}

	hospital, err := h.hospitalUsecase.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to get hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital retrieved successfully", hospital)
}

// CreateHospital
// @Summary Create a hospital
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateHospitalRequest true "Create Hospital Request"
// @Success 201 {object} response.Response
// @Router /admin/hospitals [post]
func (h *HospitalHandler) CreateHospital(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHospitalRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	hospital, err := h.hospitalUsecase.Create(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create hospital")
		return
	}

	response.Success(w, http.StatusCreated, "Hospital created successfully", hospital)
}

// UpdateHospital
// @Summary Update a hospital
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Hospital ID"
// @Param request body dto.UpdateHospitalRequest true "Update Hospital Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/hospitals/{id} [put]
func (h *HospitalHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "hospital")
	if !ok {
		return
	}

	var req dto.UpdateHospitalRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	hospital, err := h.hospitalUsecase.Update(r.Context(), id, &req)
	if err != nil {
		if writeStateError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to update hospital")
		return
	}

	response.Success(w, http.StatusOK, "Hospital updated successfully", hospital)
}

// DeleteHospital
// @Summary Delete a hospital
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Hospital ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/hospitals/{id} [delete]
func (h *HospitalHandler) DeleteHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "hospital")
	if !ok {
		return
	}

	if err := h.hospitalUsecase.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrHospitalNotFound):
			response.NotFound(w, "Hospital not found")
		case errors.Is(err, usecase.ErrHospitalHasHistory):
			response.Conflict(w, "Hospital still has reservations, deactivate it instead")
		default:
			response.InternalServerError(w, "Failed to delete hospital")
		}
		return
	}

	response.Success(w, http.StatusOK, "Hospital deleted successfully", nil)
}
