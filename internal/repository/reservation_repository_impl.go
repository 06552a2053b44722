package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var reservationListSpec = listing.Spec{
	SearchColumns: []string{"reservations.treatment", "reservations.department", "reservations.notes"},
	Filters: map[string]listing.FilterFunc{
		"status":         listing.Equals("reservations.status"),
		"hospital_id":    listing.UUIDEquals("reservations.hospital_id"),
		"interpreter_id": listing.UUIDEquals("reservations.interpreter_id"),
		"patient_id":     listing.UUIDEquals("reservations.patient_id"),
	},
	Sorts: map[string]string{
		"reservation_date": "reservations.reservation_date",
		"status":           "reservations.status",
		"created_at":       "reservations.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "reservations.id",
}

type reservationRepository struct{}

func NewReservationRepository() domainRepo.ReservationRepository {
	return &reservationRepository{}
}

func (r *reservationRepository) Create(db *gorm.DB, reservation *entity.Reservation) error {
	return db.Omit("Patient", "Hospital", "Interpreter").Create(reservation).Error
}

func (r *reservationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	tx := db.Preload("Patient").
		Preload("Hospital").
		Preload("Interpreter.User").
		Where("id = ?", id)
	found, err := first(tx, &reservation)
	if err != nil || !found {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.Reservation, int64, error) {
	var reservations []entity.Reservation
	total, err := findPage(db, &entity.Reservation{}, &reservations, reservationListSpec, q, nil,
		"Patient", "Hospital", "Interpreter.User")
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (r *reservationRepository) FindByInterpreterID(db *gorm.DB, interpreterID uuid.UUID) ([]entity.Reservation, error) {
	var reservations []entity.Reservation
	err := db.Preload("Patient").
		Where("interpreter_id = ?", interpreterID).
		Order("reservation_date DESC, created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(db *gorm.DB, reservation *entity.Reservation) (int64, error) {
	return updateVersioned(db, &entity.Reservation{}, reservation.ID, reservation.Version, map[string]interface{}{
		"status":        reservation.Status,
		"cancel_reason": reservation.CancelReason,
	})
}

func (r *reservationRepository) AssignInterpreter(db *gorm.DB, reservation *entity.Reservation) (int64, error) {
	return updateVersioned(db, &entity.Reservation{}, reservation.ID, reservation.Version, map[string]interface{}{
		"interpreter_id": reservation.InterpreterID,
	})
}
