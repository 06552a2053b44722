package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HospitalStatus string

const (
	HospitalStatusActive   HospitalStatus = "active"
	HospitalStatusInactive HospitalStatus = "inactive"
)

type Hospital struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Specialty   string          `gorm:"type:varchar(120);not null;index" json:"specialty"`
	Address     string          `gorm:"type:text;not null" json:"address"`
	City        string          `gorm:"type:varchar(120);index" json:"city"`
	Country     string          `gorm:"type:varchar(120);index" json:"country"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Rating      decimal.Decimal `gorm:"type:decimal(2,1);not null;default:0" json:"rating"`
	Status      HospitalStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Version     int             `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Fees []Fee `gorm:"foreignKey:HospitalID" json:"fees,omitempty"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

func (h *Hospital) IsActive() bool {
	return h.Status == HospitalStatusActive
}

func IsValidHospitalStatus(s string) bool {
	return HospitalStatus(s) == HospitalStatusActive || HospitalStatus(s) == HospitalStatusInactive
}
