package converter

import (
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
)

// AuditLogToResponse lifts the audited entity and its id out of the
// metadata so clients can filter trails without parsing the blob.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	entityName, _ := log.Metadata["entity"].(string)
	entityID, _ := log.Metadata["entity_id"].(string)

	return &dto.AuditLogResponse{
		ID:        log.ID,
		User:      UserToResponse(log.User),
		Action:    log.Action,
		Entity:    entityName,
		EntityID:  entityID,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}
