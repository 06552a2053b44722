package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HospitalRepository interface {
	Create(db *gorm.DB, hospital *entity.Hospital) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error)
	// FindByIDForUpdate locks the row until the transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error)
	// FindDetail loads the hospital with its fees.
	FindDetail(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.Hospital, int64, error)
	Update(db *gorm.DB, hospital *entity.Hospital) (int64, error)
	UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
