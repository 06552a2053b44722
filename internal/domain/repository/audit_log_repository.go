package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, q listing.Query) ([]entity.AuditLog, int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
