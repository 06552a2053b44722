package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterpreterRepository interface {
	Create(db *gorm.DB, interpreter *entity.Interpreter) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Interpreter, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Interpreter, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.Interpreter, int64, error)
	UpdateStatus(db *gorm.DB, interpreter *entity.Interpreter) (int64, error)
}
