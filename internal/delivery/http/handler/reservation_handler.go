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

var (
	myReservationFilterKeys       = []string{"status", "hospital_id"}
	assignedReservationFilterKeys = []string{"status", "hospital_id"}
	reservationFilterKeys         = []string{"status", "hospital_id", "interpreter_id", "patient_id"}
)

type ReservationHandler struct {
	reservationUsecase usecase.ReservationUsecase
	validator          *validator.CustomValidator
}

func NewReservationHandler(reservationUsecase usecase.ReservationUsecase, validator *validator.CustomValidator) *ReservationHandler {
	return &ReservationHandler{
		reservationUsecase: reservationUsecase,
		validator:          validator,
	}
}

// =============================================================================
// Patient
// =============================================================================

// CreateReservation
// @Summary Book a treatment
// @Tags Reservations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateReservationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.reservationUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		writeReservationError(w, err, "Failed to create reservation")
		return
	}

	response.Success(w, http.StatusCreated, "Reservation created successfully", reservation)
}

// ListMyReservations
// @Summary List the caller's reservations
// @Tags Reservations
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search treatment and notes"
// @Param status query string false "Status filter"
// @Param hospital_id query string false "Hospital filter"
// @Success 200 {object} response.Response
// @Router /me/reservations [get]
func (h *ReservationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	q := listQuery(r, myReservationFilterKeys...)
	reservations, total, err := h.reservationUsecase.ListMine(r.Context(), patientID, q)
	if err != nil {
		writeListError(w, err, "Failed to get reservations")
		return
	}

	writeList(w, "Reservations retrieved successfully", reservations, q, total)
}

// CancelReservation
// @Summary Cancel one of the caller's reservations
// @Tags Reservations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.CancelReservationRequest true "Cancel Reservation Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, ok := pathUUID(w, r, "id", "reservation")
	if !ok {
		return
	}

	var req dto.CancelReservationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.reservationUsecase.Cancel(r.Context(), patientID, id, &req)
	if err != nil {
		writeReservationError(w, err, "Failed to cancel reservation")
		return
	}

	response.Success(w, http.StatusOK, "Reservation cancelled successfully", reservation)
}

// =============================================================================
// Interpreter workspace
// =============================================================================

// ListRequests returns pending reservations assigned to the caller.
func (h *ReservationHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	interpreterID, ok := middleware.GetInterpreterIDFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Interpreter profile required")
		return
	}

	q := listQuery(r, "hospital_id")
	reservations, total, err := h.reservationUsecase.ListRequests(r.Context(), interpreterID, q)
	if err != nil {
		writeListError(w, err, "Failed to get requests")
		return
	}

	writeList(w, "Requests retrieved successfully", reservations, q, total)
}

func (h *ReservationHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	interpreterID, ok := middleware.GetInterpreterIDFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Interpreter profile required")
		return
	}

	q := listQuery(r, assignedReservationFilterKeys...)
	reservations, total, err := h.reservationUsecase.ListAssigned(r.Context(), interpreterID, q)
	if err != nil {
		writeListError(w, err, "Failed to get reservations")
		return
	}

	writeList(w, "Reservations retrieved successfully", reservations, q, total)
}

// ListCustomers
// @Summary List the patients the caller has worked with
// @Tags Interpreter
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search full name and email"
// @Param sort query string false "full_name, reservation_count or last_reservation_date"
// @Success 200 {object} response.Response
// @Router /interpreter/customers [get]
func (h *ReservationHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	interpreterID, ok := middleware.GetInterpreterIDFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Interpreter profile required")
		return
	}

	q := listQuery(r, usecase.CustomerFilterKeys()...)
	customers, total, err := h.reservationUsecase.ListCustomers(r.Context(), interpreterID, q)
	if err != nil {
		writeListError(w, err, "Failed to get customers")
		return
	}

	writeList(w, "Customers retrieved successfully", customers, q, total)
}

// ChangeStatusAsInterpreter confirms, completes or cancels a reservation
// assigned to the caller.
func (h *ReservationHandler) ChangeStatusAsInterpreter(w http.ResponseWriter, r *http.Request) {
	interpreterID, ok := middleware.GetInterpreterIDFromContext(r.Context())
	if !ok {
		response.Forbidden(w, "Interpreter profile required")
		return
	}

	id, ok := pathUUID(w, r, "id", "reservation")
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.reservationUsecase.ChangeStatusAsInterpreter(r.Context(), interpreterID, id, &req)
	if err != nil {
		writeReservationError(w, err, "Failed to change reservation status")
		return
	}

	response.Success(w, http.StatusOK, "Reservation status changed successfully", reservation)
}

// =============================================================================
// Admin
// =============================================================================

func (h *ReservationHandler) ListAllReservations(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, reservationFilterKeys...)

	reservations, total, err := h.reservationUsecase.ListAll(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get reservations")
		return
	}

	writeList(w, "Reservations retrieved successfully", reservations, q, total)
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "reservation")
	if !ok {
		return
	}

	reservation, err := h.reservationUsecase.Get(r.Context(), id)
	if err != nil {
		writeReservationError(w, err, "Failed to get reservation")
		return
	}

	response.Success(w, http.StatusOK, "Reservation retrieved successfully", reservation)
}

// ChangeReservationStatus
// @Summary Move a reservation through its status workflow
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.StatusChangeRequest true "Status Change Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/reservations/{id}/status [post]
func (h *ReservationHandler) ChangeReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "reservation")
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.reservationUsecase.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		writeReservationError(w, err, "Failed to change reservation status")
		return
	}

	response.Success(w, http.StatusOK, "Reservation status changed successfully", reservation)
}

// AssignInterpreter
// @Summary Assign an interpreter to a reservation
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AssignInterpreterRequest true "Assign Interpreter Request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/reservations/{id}/interpreter [put]
func (h *ReservationHandler) AssignInterpreter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "reservation")
	if !ok {
		return
	}

	var req dto.AssignInterpreterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.reservationUsecase.AssignInterpreter(r.Context(), id, &req)
	if err != nil {
		writeReservationError(w, err, "Failed to assign interpreter")
		return
	}

	response.Success(w, http.StatusOK, "Interpreter assigned successfully", reservation)
}

func writeReservationError(w http.ResponseWriter, err error, fallback string) {
	if writeStateError(w, err) {
		return
	}
	switch {
	case errors.Is(err, usecase.ErrReservationNotFound):
		response.NotFound(w, "Reservation not found")
	case errors.Is(err, usecase.ErrReservationForbidden):
		response.Forbidden(w, "Reservation does not belong to you")
	case errors.Is(err, usecase.ErrHospitalNotFound):
		response.NotFound(w, "Hospital not found")
	case errors.Is(err, usecase.ErrInterpreterNotFound):
		response.NotFound(w, "Interpreter not found")
	case errors.Is(err, usecase.ErrInvalidDateInput), errors.Is(err, usecase.ErrReservationInPast):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrHospitalInactive),
		errors.Is(err, usecase.ErrInterpreterNotActive),
		errors.Is(err, usecase.ErrInterpreterDepartment):
		response.UnprocessableEntity(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
