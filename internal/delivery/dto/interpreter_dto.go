package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// StatusChangeRequest moves an interpreter or reservation through its
// status machine. Reason is kept when a reservation is cancelled.
type StatusChangeRequest struct {
	Status  string `json:"status" validate:"required"`
	Reason  string `json:"reason" validate:"omitempty,max=1000"`
	Version int    `json:"version" validate:"required,min=1"`
}

// Response DTOs

type InterpreterResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email,omitempty"`
	Specializations []string  `json:"specializations"`
	Languages       []string  `json:"languages"`
	ExperienceYears int       `json:"experience_years"`
	Bio             string    `json:"bio,omitempty"`
	Status          string    `json:"status"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
}

// InterpreterSummary is embedded in reservations.
type InterpreterSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// CustomerResponse is a patient seen from the interpreter's side.
type CustomerResponse struct {
	PatientID           uuid.UUID `json:"patient_id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Nationality         string    `json:"nationality,omitempty"`
	PreferredLanguage   string    `json:"preferred_language,omitempty"`
	ReservationCount    int       `json:"reservation_count"`
	LastReservationDate string    `json:"last_reservation_date"`
}
