package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	// Add is a no-op when the favorite already exists.
	Add(db *gorm.DB, favorite *entity.Favorite) error
	Remove(db *gorm.DB, userID, hospitalID uuid.UUID) error
	FindHospitals(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Hospital, int64, error)
}
