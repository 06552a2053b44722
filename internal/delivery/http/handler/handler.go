package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/listing"
	"medical-tourism-concierge/pkg/response"
	"medical-tourism-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decodeAndValidate reads a JSON body into req and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

// pathUUID parses the {name} route variable.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func listQuery(r *http.Request, filterKeys ...string) listing.Query {
	return listing.ParseQuery(r.URL.Query(), filterKeys...)
}

// writeListError reports a list failure. Malformed filter values are the
// caller's fault.
func writeListError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, listing.ErrInvalidFilter) {
		response.BadRequest(w, err.Error())
		return
	}
	response.InternalServerError(w, fallback)
}

func writeList(w http.ResponseWriter, message string, data interface{}, q listing.Query, total int64) {
	response.SuccessWithMeta(w, http.StatusOK, message, data, response.NewMeta(q.Page, q.Limit, total))
}

// writeStateError handles the errors shared by every versioned or
// status-driven mutation. It reports whether err was handled.
func writeStateError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, entity.ErrUnknownStatus):
		response.BadRequest(w, "Unknown status")
	case errors.Is(err, entity.ErrInvalidStatusTransition):
		response.Conflict(w, "Status transition is not allowed")
	case errors.Is(err, usecase.ErrVersionConflict):
		response.Conflict(w, "Resource was modified by another request, reload and retry")
	default:
		return false
	}
	return true
}
