package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// pending -> confirmed -> completed, and any open reservation may be cancelled.
var reservationTransitions = transitionTable[ReservationStatus]{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusCompleted: nil,
	ReservationStatusCancelled: nil,
}

func IsValidReservationStatus(s string) bool {
	_, ok := reservationTransitions[ReservationStatus(s)]
	return ok
}

// Reservation is a patient's booking of a treatment at a hospital, optionally
// accompanied by an interpreter.
type Reservation struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	HospitalID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"hospital_id"`
	InterpreterID   *uuid.UUID        `gorm:"type:uuid;index" json:"interpreter_id,omitempty"`
	Treatment       string            `gorm:"type:varchar(255);not null" json:"treatment"`
	Department      string            `gorm:"type:varchar(120);not null" json:"department"`
	ReservationDate time.Time         `gorm:"type:date;not null;index" json:"reservation_date"`
	ReservationTime string            `gorm:"type:varchar(5);not null" json:"reservation_time"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CancelReason    string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	Version         int               `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     *User        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Hospital    *Hospital    `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Interpreter *Interpreter `gorm:"foreignKey:InterpreterID" json:"interpreter,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending
}

func (r *Reservation) IsTerminal() bool {
	return len(reservationTransitions[r.Status]) == 0
}

// TransitionTo moves the reservation to next or returns ErrUnknownStatus /
// ErrInvalidStatusTransition.
func (r *Reservation) TransitionTo(next ReservationStatus) error {
	if err := reservationTransitions.check(r.Status, next); err != nil {
		return err
	}
	r.Status = next
	return nil
}

// Cancel moves the reservation to cancelled and records why.
func (r *Reservation) Cancel(reason string) error {
	if err := r.TransitionTo(ReservationStatusCancelled); err != nil {
		return err
	}
	r.CancelReason = reason
	return nil
}

// IsAssignedTo reports whether interpreterID accompanies this reservation.
func (r *Reservation) IsAssignedTo(interpreterID uuid.UUID) bool {
	return r.InterpreterID != nil && *r.InterpreterID == interpreterID
}
