package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(db *gorm.DB, promotion *entity.Promotion) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Promotion, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.Promotion, int64, error)
	Update(db *gorm.DB, promotion *entity.Promotion) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
