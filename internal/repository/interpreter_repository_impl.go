package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const joinInterpreterUsers = "JOIN users ON users.id = interpreters.user_id"

var interpreterListSpec = listing.Spec{
	SearchColumns: []string{"users.full_name", "interpreters.bio"},
	Filters: map[string]listing.FilterFunc{
		"status":         listing.Equals("interpreters.status"),
		"specialization": listing.ArrayContains("interpreters.specializations"),
		"language":       listing.ArrayContains("interpreters.languages"),
	},
	Sorts: map[string]string{
		"full_name":        "users.full_name",
		"experience_years": "interpreters.experience_years",
		"created_at":       "interpreters.created_at",
	},
	DefaultSort:  "full_name",
	DefaultOrder: listing.Asc,
	TieBreaker:   "interpreters.id",
}

type interpreterRepository struct{}

func NewInterpreterRepository() domainRepo.InterpreterRepository {
	return &interpreterRepository{}
}

func (r *interpreterRepository) Create(db *gorm.DB, interpreter *entity.Interpreter) error {
	return db.Omit("User").Create(interpreter).Error
}

func (r *interpreterRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Interpreter, error) {
	var interpreter entity.Interpreter
	found, err := first(db.Preload("User").Where("id = ?", id), &interpreter)
	if err != nil || !found {
		return nil, err
	}
	return &interpreter, nil
}

func (r *interpreterRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Interpreter, error) {
	var interpreter entity.Interpreter
	found, err := first(db.Preload("User").Where("user_id = ?", userID), &interpreter)
	if err != nil || !found {
		return nil, err
	}
	return &interpreter, nil
}

func (r *interpreterRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.Interpreter, int64, error) {
	var interpreters []entity.Interpreter
	total, err := findPage(db, &entity.Interpreter{}, &interpreters, interpreterListSpec, q, []string{joinInterpreterUsers}, "User")
	if err != nil {
		return nil, 0, err
	}
	return interpreters, total, nil
}

func (r *interpreterRepository) UpdateStatus(db *gorm.DB, interpreter *entity.Interpreter) (int64, error) {
	return updateVersioned(db, &entity.Interpreter{}, interpreter.ID, interpreter.Version, map[string]interface{}{
		"status": interpreter.Status,
	})
}
