package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var promotionListSpec = listing.Spec{
	SearchColumns: []string{"promotions.title", "promotions.description"},
	Filters: map[string]listing.FilterFunc{
		"hospital_id": listing.UUIDEquals("promotions.hospital_id"),
		"status":      promotionStatusFilter,
	},
	Sorts: map[string]string{
		"title":            "promotions.title",
		"discount_percent": "promotions.discount_percent",
		"valid_from":       "promotions.valid_from",
		"valid_until":      "promotions.valid_until",
		"created_at":       "promotions.created_at",
	},
	DefaultSort:  "valid_from",
	DefaultOrder: listing.Desc,
	TieBreaker:   "promotions.id",
}

// promotionStatusFilter evaluates the computed status against the database
// clock so it agrees with the paginated total.
func promotionStatusFilter(db *gorm.DB, value string) *gorm.DB {
	switch entity.PromotionStatus(value) {
	case entity.PromotionStatusUpcoming:
		return db.Where("promotions.valid_from > NOW()")
	case entity.PromotionStatusActive:
		return db.Where("promotions.valid_from <= NOW() AND promotions.valid_until >= NOW()")
	case entity.PromotionStatusExpired:
		return db.Where("promotions.valid_until < NOW()")
	}
	return db
}

type promotionRepository struct{}

func NewPromotionRepository() domainRepo.PromotionRepository {
	return &promotionRepository{}
}

func (r *promotionRepository) Create(db *gorm.DB, promotion *entity.Promotion) error {
	return db.Create(promotion).Error
}

func (r *promotionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Promotion, error) {
	var promotion entity.Promotion
	found, err := first(db.Where("id = ?", id), &promotion)
	if err != nil || !found {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.Promotion, int64, error) {
	var promotions []entity.Promotion
	total, err := findPage(db, &entity.Promotion{}, &promotions, promotionListSpec, q, nil)
	if err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

func (r *promotionRepository) Update(db *gorm.DB, promotion *entity.Promotion) (int64, error) {
	return updateVersioned(db, &entity.Promotion{}, promotion.ID, promotion.Version, map[string]interface{}{
		"hospital_id":      promotion.HospitalID,
		"title":            promotion.Title,
		"description":      promotion.Description,
		"discount_percent": promotion.DiscountPercent,
		"valid_from":       promotion.ValidFrom,
		"valid_until":      promotion.ValidUntil,
	})
}

func (r *promotionRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Promotion{}).Error
}
