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
	interpreterPublicFilterKeys = []string{"specialization", "language"}
	interpreterFilterKeys       = []string{"specialization", "language", "status"}
)

type InterpreterHandler struct {
	interpreterUsecase usecase.InterpreterUsecase
	validator          *validator.CustomValidator
}

func NewInterpreterHandler(interpreterUsecase usecase.InterpreterUsecase, validator *validator.CustomValidator) *InterpreterHandler {
	return &InterpreterHandler{
		interpreterUsecase: interpreterUsecase,
		validator:          validator,
	}
}

// ListInterpreters returns active interpreters only.
// @Summary List interpreters
// @Tags Interpreters
// @Produce json
// @Param q query string false "Search name and bio"
// @Param specialization query string false "Specialization filter"
// @Param language query string false "Language filter"
// @Success 200 {object} response.Response
// @Router /interpreters [get]
func (h *InterpreterHandler) ListInterpreters(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, interpreterPublicFilterKeys...)

	interpreters, total, err := h.interpreterUsecase.ListPublic(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get interpreters")
		return
	}

	writeList(w, "Interpreters retrieved successfully", interpreters, q, total)
}

func (h *InterpreterHandler) ListAllInterpreters(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, interpreterFilterKeys...)

	interpreters, total, err := h.interpreterUsecase.List(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get interpreters")
		return
	}

	writeList(w, "Interpreters retrieved successfully", interpreters, q, total)
}

func (h *InterpreterHandler) GetInterpreter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "interpreter")
	if !ok {
		return
	}

	interpreter, err := h.interpreterUsecase.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrInterpreterNotFound) {
			response.NotFound(w, "Interpreter not found")
			return
		}
		response.InternalServerError(w, "Failed to get interpreter")
		return
	}

	response.Success(w, http.StatusOK, "Interpreter retrieved successfully", interpreter)
}

// ChangeInterpreterStatus
// @Summary Approve, suspend or deactivate an interpreter
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Interpreter ID"
// @Param request body dto.StatusChangeRequest true "Status Change Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/interpreters/{id}/status [post]
func (h *InterpreterHandler) ChangeInterpreterStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "interpreter")
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	interpreter, err := h.interpreterUsecase.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		if writeStateError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrInterpreterNotFound) {
			response.NotFound(w, "Interpreter not found")
			return
		}
		response.InternalServerError(w, "Failed to change interpreter status")
		return
	}

	response.Success(w, http.StatusOK, "Interpreter status changed successfully", interpreter)
}
