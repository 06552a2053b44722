package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var reviewListSpec = listing.Spec{
	SearchColumns: []string{"reviews.comment"},
	Filters: map[string]listing.FilterFunc{
		"hospital_id": listing.UUIDEquals("reviews.hospital_id"),
		"rating":      listing.IntEquals("reviews.rating"),
	},
	Sorts: map[string]string{
		"rating":     "reviews.rating",
		"created_at": "reviews.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "reviews.id",
}

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Omit("User").Create(review).Error
}

func (r *reviewRepository) FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID, q listing.Query) ([]entity.Review, int64, error) {
	var reviews []entity.Review
	q = q.WithFilter("hospital_id", hospitalID.String())
	total, err := findPage(db, &entity.Review{}, &reviews, reviewListSpec, q, nil, "User")
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AverageRating returns the mean review rating of the hospital rounded to
// one decimal, or zero when it has no reviews.
func (r *reviewRepository) AverageRating(db *gorm.DB, hospitalID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Average decimal.NullDecimal
	}
	err := db.Model(&entity.Review{}).
		Select("AVG(rating) AS average").
		Where("hospital_id = ?", hospitalID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !result.Average.Valid {
		return decimal.Zero, nil
	}
	return result.Average.Decimal.Round(1), nil
}
