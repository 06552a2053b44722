package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const joinFavorites = "JOIN favorites ON favorites.hospital_id = hospitals.id"

// favoriteListSpec lists a user's favorite hospitals. It reuses the hospital
// search columns and sorts, scoped by the favorites join.
var favoriteListSpec = listing.Spec{
	SearchColumns: hospitalListSpec.SearchColumns,
	Filters: map[string]listing.FilterFunc{
		"user_id": listing.UUIDEquals("favorites.user_id"),
		"city":    listing.Equals("hospitals.city"),
		"country": listing.Equals("hospitals.country"),
	},
	Sorts: map[string]string{
		"name":       "hospitals.name",
		"rating":     "hospitals.rating",
		"created_at": "favorites.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "hospitals.id",
}

type favoriteRepository struct{}

func NewFavoriteRepository() domainRepo.FavoriteRepository {
	return &favoriteRepository{}
}

func (r *favoriteRepository) Add(db *gorm.DB, favorite *entity.Favorite) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error
}

func (r *favoriteRepository) Remove(db *gorm.DB, userID, hospitalID uuid.UUID) error {
	return db.Where("user_id = ? AND hospital_id = ?", userID, hospitalID).Delete(&entity.Favorite{}).Error
}

func (r *favoriteRepository) FindHospitals(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Hospital, int64, error) {
	var hospitals []entity.Hospital
	q = q.WithFilter("user_id", userID.String())
	total, err := findPage(db, &entity.Hospital{}, &hospitals, favoriteListSpec, q, []string{joinFavorites})
	if err != nil {
		return nil, 0, err
	}
	return hospitals, total, nil
}
