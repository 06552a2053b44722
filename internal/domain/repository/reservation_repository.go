package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(db *gorm.DB, reservation *entity.Reservation) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Reservation, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.Reservation, int64, error)
	// FindByInterpreterID returns every reservation assigned to the
	// interpreter with its patient loaded, newest first.
	FindByInterpreterID(db *gorm.DB, interpreterID uuid.UUID) ([]entity.Reservation, error)
	UpdateStatus(db *gorm.DB, reservation *entity.Reservation) (int64, error)
	AssignInterpreter(db *gorm.DB, reservation *entity.Reservation) (int64, error)
}
