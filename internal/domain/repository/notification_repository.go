package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByUserID(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Notification, int64, error)
	// MarkRead sets read_at on the user's notification and returns the
	// number of rows affected.
	MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error)
}
