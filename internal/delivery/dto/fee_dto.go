package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateFeeRequest struct {
	HospitalID uuid.UUID       `json:"hospital_id" validate:"required"`
	Department string          `json:"department" validate:"required,max=120"`
	Treatment  string          `json:"treatment" validate:"required,max=255"`
	MinPrice   decimal.Decimal `json:"min_price" validate:"gte=0"`
	MaxPrice   decimal.Decimal `json:"max_price" validate:"gte=0"`
	Currency   string          `json:"currency" validate:"required,iso4217"`
	Duration   string          `json:"duration" validate:"omitempty,max=60"`
}

type UpdateFeeRequest struct {
	HospitalID uuid.UUID       `json:"hospital_id" validate:"required"`
	Department string          `json:"department" validate:"required,max=120"`
	Treatment  string          `json:"treatment" validate:"required,max=255"`
	MinPrice   decimal.Decimal `json:"min_price" validate:"gte=0"`
	MaxPrice   decimal.Decimal `json:"max_price" validate:"gte=0"`
	Currency   string          `json:"currency" validate:"required,iso4217"`
	Duration   string          `json:"duration" validate:"omitempty,max=60"`
	Version    int             `json:"version" validate:"required,min=1"`
}

// Response DTOs

type FeeResponse struct {
	ID         uuid.UUID        `json:"id"`
	HospitalID uuid.UUID        `json:"hospital_id"`
	Hospital   *HospitalSummary `json:"hospital,omitempty"`
	Department string           `json:"department"`
	Treatment  string           `json:"treatment"`
	MinPrice   decimal.Decimal  `json:"min_price"`
	MaxPrice   decimal.Decimal  `json:"max_price"`
	Currency   string           `json:"currency"`
	Duration   string           `json:"duration,omitempty"`
	Version    int              `json:"version"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type QuoteResponse struct {
	FeeID              uuid.UUID       `json:"fee_id"`
	Treatment          string          `json:"treatment"`
	Currency           string          `json:"currency"`
	MinPrice           decimal.Decimal `json:"min_price"`
	MaxPrice           decimal.Decimal `json:"max_price"`
	DiscountPercent    decimal.Decimal `json:"discount_percent"`
	DiscountedMinPrice decimal.Decimal `json:"discounted_min_price"`
	DiscountedMaxPrice decimal.Decimal `json:"discounted_max_price"`
	PromotionID        *uuid.UUID      `json:"promotion_id,omitempty"`
}
