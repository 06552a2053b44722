package converter

import (
	"testing"

	"medical-tourism-concierge/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestAuditLogToResponse_LiftsEntityFromMetadata(t *testing.T) {
	resp := AuditLogToResponse(&entity.AuditLog{
		ID:     7,
		Action: entity.AuditActionReservationStatus,
		Metadata: entity.JSON{
			"entity":    "reservation",
			"entity_id": "0b6f3c8e-4f55-4c1c-9a43-7d1a4f2f7e10",
			"new_value": "confirmed",
		},
	})

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "reservation", resp.Entity)
	assert.Equal(t, "0b6f3c8e-4f55-4c1c-9a43-7d1a4f2f7e10", resp.EntityID)
	assert.Nil(t, resp.User)
}

func TestAuditLogToResponse_MissingMetadata(t *testing.T) {
	assert.Nil(t, AuditLogToResponse(nil))

	resp := AuditLogToResponse(&entity.AuditLog{ID: 1, Action: entity.AuditActionUserDelete})
	assert.Empty(t, resp.Entity)
	assert.Empty(t, resp.EntityID)

	resps := AuditLogsToResponses([]entity.AuditLog{
		{ID: 1, Metadata: entity.JSON{"entity": 42}},
		{ID: 2, Metadata: entity.JSON{"entity": "fee"}},
	})
	assert.Empty(t, resps[0].Entity)
	assert.Equal(t, "fee", resps[1].Entity)
}
