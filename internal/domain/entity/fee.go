package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPriceRange = errors.New("min price must not exceed max price")

// Fee is the published price range of a treatment at a hospital.
type Fee struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HospitalID uuid.UUID       `gorm:"type:uuid;not null;index" json:"hospital_id"`
	Department string          `gorm:"type:varchar(120);not null;index" json:"department"`
	Treatment  string          `gorm:"type:varchar(255);not null" json:"treatment"`
	MinPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"min_price"`
	MaxPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"max_price"`
	Currency   string          `gorm:"type:char(3);not null" json:"currency"`
	Duration   string          `gorm:"type:varchar(60)" json:"duration,omitempty"`
	Version    int             `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (Fee) TableName() string {
	return "fees"
}

func (f *Fee) Validate() error {
	if f.MinPrice.GreaterThan(f.MaxPrice) {
		return ErrInvalidPriceRange
	}
	return nil
}

// Quote is a fee's price range with an optional promotion applied.
type Quote struct {
	MinPrice           decimal.Decimal
	MaxPrice           decimal.Decimal
	Currency           string
	DiscountPercent    decimal.Decimal
	DiscountedMinPrice decimal.Decimal
	DiscountedMaxPrice decimal.Decimal
	PromotionID        *uuid.UUID
}

// QuoteWith prices the fee with promo applied. A nil promo, or one that
// does not apply to the fee's hospital, leaves the prices unchanged.
func (f *Fee) QuoteWith(promo *Promotion, now time.Time) Quote {
	q := Quote{
		MinPrice:           f.MinPrice,
		MaxPrice:           f.MaxPrice,
		Currency:           f.Currency,
		DiscountPercent:    decimal.Zero,
		DiscountedMinPrice: f.MinPrice,
		DiscountedMaxPrice: f.MaxPrice,
	}

	if promo == nil || !promo.AppliesTo(f.HospitalID, now) {
		return q
	}

	factor := decimal.NewFromInt(100).Sub(promo.DiscountPercent).Div(decimal.NewFromInt(100))
	q.DiscountPercent = promo.DiscountPercent
	q.DiscountedMinPrice = f.MinPrice.Mul(factor).RoundBank(2)
	q.DiscountedMaxPrice = f.MaxPrice.Mul(factor).RoundBank(2)
	id := promo.ID
	q.PromotionID = &id
	return q
}
