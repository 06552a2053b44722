package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hospitalListSpec = listing.Spec{
	SearchColumns: []string{"hospitals.name", "hospitals.specialty", "hospitals.city", "hospitals.address"},
	Filters: map[string]listing.FilterFunc{
		"specialty": listing.Equals("hospitals.specialty"),
		"city":      listing.Equals("hospitals.city"),
		"country":   listing.Equals("hospitals.country"),
		"status":    listing.Equals("hospitals.status"),
	},
	Sorts: map[string]string{
		"name":       "hospitals.name",
		"rating":     "hospitals.rating",
		"created_at": "hospitals.created_at",
	},
	DefaultSort:  "name",
	DefaultOrder: listing.Asc,
	TieBreaker:   "hospitals.id",
}

type hospitalRepository struct{}

func NewHospitalRepository() domainRepo.HospitalRepository {
	return &hospitalRepository{}
}

func (r *hospitalRepository) Create(db *gorm.DB, hospital *entity.Hospital) error {
	return db.Omit("Fees").Create(hospital).Error
}

func (r *hospitalRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	var hospital entity.Hospital
	found, err := first(db.Where("id = ?", id), &hospital)
	if err != nil || !found {
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *hospitalRepository) FindDetail(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	var hospital entity.Hospital
	tx := db.Preload("Fees", func(db *gorm.DB) *gorm.DB {
		return db.Order("fees.department, fees.treatment")
	}).Where("id = ?", id)
	found, err := first(tx, &hospital)
	if err != nil || !found {
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.Hospital, int64, error) {
	var hospitals []entity.Hospital
	total, err := findPage(db, &entity.Hospital{}, &hospitals, hospitalListSpec, q, nil)
	if err != nil {
		return nil, 0, err
	}
	return hospitals, total, nil
}

func (r *hospitalRepository) Update(db *gorm.DB, hospital *entity.Hospital) (int64, error) {
	return updateVersioned(db, &entity.Hospital{}, hospital.ID, hospital.Version, map[string]interface{}{
		"name":        hospital.Name,
		"specialty":   hospital.Specialty,
		"address":     hospital.Address,
		"city":        hospital.City,
		"country":     hospital.Country,
		"description": hospital.Description,
		"status":      hospital.Status,
	})
}

// UpdateRating is derived from reviews and leaves the version alone.
func (r *hospitalRepository) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal) error {
	return db.Model(&entity.Hospital{}).Where("id = ?", id).UpdateColumn("rating", rating).Error
}

func (r *hospitalRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Hospital{}).Error
}
