package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateHospitalRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Specialty   string `json:"specialty" validate:"required,max=120"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"omitempty,max=120"`
	Country     string `json:"country" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateHospitalRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Specialty   string `json:"specialty" validate:"required,max=120"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"omitempty,max=120"`
	Country     string `json:"country" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Status      string `json:"status" validate:"required,oneof=active inactive"`
	Version     int    `json:"version" validate:"required,min=1"`
}

// Response DTOs

type HospitalResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Specialty   string          `json:"specialty"`
	Address     string          `json:"address"`
	City        string          `json:"city,omitempty"`
	Country     string          `json:"country,omitempty"`
	Description string          `json:"description,omitempty"`
	Rating      decimal.Decimal `json:"rating"`
	Status      string          `json:"status"`
	Version     int             `json:"version"`
	Fees        []FeeResponse   `json:"fees,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HospitalSummary is embedded in other resources.
type HospitalSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	City string    `json:"city,omitempty"`
}
