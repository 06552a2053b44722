package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreatePromotionRequest struct {
	HospitalID      *uuid.UUID      `json:"hospital_id"`
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description" validate:"omitempty,max=5000"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gt=0,lte=100"`
	ValidFrom       time.Time       `json:"valid_from" validate:"required"`
	ValidUntil      time.Time       `json:"valid_until" validate:"required,gtfield=ValidFrom"`
}

type UpdatePromotionRequest struct {
	HospitalID      *uuid.UUID      `json:"hospital_id"`
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description" validate:"omitempty,max=5000"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gt=0,lte=100"`
	ValidFrom       time.Time       `json:"valid_from" validate:"required"`
	ValidUntil      time.Time       `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	Version         int             `json:"version" validate:"required,min=1"`
}

// Response DTOs

type PromotionResponse struct {
	ID              uuid.UUID       `json:"id"`
	HospitalID      *uuid.UUID      `json:"hospital_id,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidUntil      time.Time       `json:"valid_until"`
	Status          string          `json:"status"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
