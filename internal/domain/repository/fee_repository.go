package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeRepository interface {
	Create(db *gorm.DB, fee *entity.Fee) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Fee, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.Fee, int64, error)
	Update(db *gorm.DB, fee *entity.Fee) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
