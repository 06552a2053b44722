package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID, q listing.Query) ([]entity.Review, int64, error)
	AverageRating(db *gorm.DB, hospitalID uuid.UUID) (decimal.Decimal, error)
}
