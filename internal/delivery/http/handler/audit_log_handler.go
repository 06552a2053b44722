package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"

	"github.com/gorilla/mux"
)

var auditLogFilterKeys = []string{"action", "user_id", "entity"}

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetAuditLog
// @Summary Get an audit log entry
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Audit log ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/audit-logs/{id} [get]
func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.Get(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// ListAuditLogs
// @Summary List audit logs
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param action query string false "Action filter"
// @Param user_id query string false "Actor filter"
// @Param entity query string false "Entity filter"
// @Success 200 {object} response.Response
// @Router /admin/audit-logs [get]
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r, auditLogFilterKeys...)

	auditLogs, total, err := h.auditLogUsecase.List(r.Context(), q)
	if err != nil {
		writeListError(w, err, "Failed to get audit logs")
		return
	}

	writeList(w, "Audit logs retrieved successfully", auditLogs, q, total)
}
