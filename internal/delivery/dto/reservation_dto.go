package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReservationRequest struct {
	HospitalID      uuid.UUID  `json:"hospital_id" validate:"required"`
	InterpreterID   *uuid.UUID `json:"interpreter_id"`
	Treatment       string     `json:"treatment" validate:"required,max=255"`
	Department      string     `json:"department" validate:"required,max=120"`
	ReservationDate string     `json:"reservation_date" validate:"required,date"` // Format: YYYY-MM-DD
	ReservationTime string     `json:"reservation_time" validate:"required,hhmm"` // Format: HH:MM
	Notes           string     `json:"notes" validate:"omitempty,max=2000"`
}

type CancelReservationRequest struct {
	Reason  string `json:"reason" validate:"omitempty,max=1000"`
	Version int    `json:"version" validate:"required,min=1"`
}

type AssignInterpreterRequest struct {
	InterpreterID uuid.UUID `json:"interpreter_id" validate:"required"`
	Version       int       `json:"version" validate:"required,min=1"`
}

// Response DTOs

type PatientSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type ReservationResponse struct {
	ID              uuid.UUID           `json:"id"`
	Patient         *PatientSummary     `json:"patient,omitempty"`
	Hospital        *HospitalSummary    `json:"hospital,omitempty"`
	Interpreter     *InterpreterSummary `json:"interpreter,omitempty"`
	Treatment       string              `json:"treatment"`
	Department      string              `json:"department"`
	ReservationDate string              `json:"reservation_date"`
	ReservationTime string              `json:"reservation_time"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
