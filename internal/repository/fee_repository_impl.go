package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var feeListSpec = listing.Spec{
	SearchColumns: []string{"fees.treatment", "fees.department"},
	Filters: map[string]listing.FilterFunc{
		"hospital_id": listing.UUIDEquals("fees.hospital_id"),
		"department":  listing.Equals("fees.department"),
		"currency":    listing.Equals("fees.currency"),
	},
	Sorts: map[string]string{
		"min_price":  "fees.min_price",
		"max_price":  "fees.max_price",
		"treatment":  "fees.treatment",
		"created_at": "fees.created_at",
	},
	DefaultSort:  "treatment",
	DefaultOrder: listing.Asc,
	TieBreaker:   "fees.id",
}

type feeRepository struct{}

func NewFeeRepository() domainRepo.FeeRepository {
	return &feeRepository{}
}

func (r *feeRepository) Create(db *gorm.DB, fee *entity.Fee) error {
	return db.Omit("Hospital").Create(fee).Error
}

func (r *feeRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Fee, error) {
	var fee entity.Fee
	found, err := first(db.Preload("Hospital").Where("id = ?", id), &fee)
	if err != nil || !found {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.Fee, int64, error) {
	var fees []entity.Fee
	total, err := findPage(db, &entity.Fee{}, &fees, feeListSpec, q, nil, "Hospital")
	if err != nil {
		return nil, 0, err
	}
	return fees, total, nil
}

func (r *feeRepository) Update(db *gorm.DB, fee *entity.Fee) (int64, error) {
	return updateVersioned(db, &entity.Fee{}, fee.ID, fee.Version, map[string]interface{}{
		"hospital_id": fee.HospitalID,
		"department":  fee.Department,
		"treatment":   fee.Treatment,
		"min_price":   fee.MinPrice,
		"max_price":   fee.MaxPrice,
		"currency":    fee.Currency,
		"duration":    fee.Duration,
	})
}

func (r *feeRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Fee{}).Error
}
