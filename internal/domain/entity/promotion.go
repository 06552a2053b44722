package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionStatus is derived from the validity window, never stored.
type PromotionStatus string

const (
	PromotionStatusUpcoming PromotionStatus = "upcoming"
	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusExpired  PromotionStatus = "expired"
)

func IsValidPromotionStatus(s string) bool {
	switch PromotionStatus(s) {
	case PromotionStatusUpcoming, PromotionStatusActive, PromotionStatusExpired:
		return true
	}
	return false
}

type Promotion struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HospitalID      *uuid.UUID      `gorm:"type:uuid;index" json:"hospital_id,omitempty"`
	Title           string          `gorm:"type:varchar(255);not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	ValidFrom       time.Time       `gorm:"not null;index" json:"valid_from"`
	ValidUntil      time.Time       `gorm:"not null;index" json:"valid_until"`
	Version         int             `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// StatusAt reports the promotion's status at now. Both ends of the
// validity window are inclusive.
func (p *Promotion) StatusAt(now time.Time) PromotionStatus {
	switch {
	case now.Before(p.ValidFrom):
		return PromotionStatusUpcoming
	case now.After(p.ValidUntil):
		return PromotionStatusExpired
	default:
		return PromotionStatusActive
	}
}

// AppliesTo reports whether the promotion is active at now and covers the
// hospital. A promotion without a hospital covers every hospital.
func (p *Promotion) AppliesTo(hospitalID uuid.UUID, now time.Time) bool {
	if p.StatusAt(now) != PromotionStatusActive {
		return false
	}
	return p.HospitalID == nil || *p.HospitalID == hospitalID
}
