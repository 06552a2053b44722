package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InterpreterStatus string

const (
	InterpreterStatusInactive  InterpreterStatus = "inactive"
	InterpreterStatusActive    InterpreterStatus = "active"
	InterpreterStatusSuspended InterpreterStatus = "suspended"
)

// New interpreters start inactive and wait for admin approval.
var interpreterTransitions = transitionTable[InterpreterStatus]{
	InterpreterStatusInactive:  {InterpreterStatusActive},
	InterpreterStatusActive:    {InterpreterStatusSuspended, InterpreterStatusInactive},
	InterpreterStatusSuspended: {InterpreterStatusActive},
}

func IsValidInterpreterStatus(s string) bool {
	_, ok := interpreterTransitions[InterpreterStatus(s)]
	return ok
}

type Interpreter struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specializations pq.StringArray    `gorm:"type:text[];not null" json:"specializations"`
	Languages       pq.StringArray    `gorm:"type:text[];not null" json:"languages"`
	ExperienceYears int               `gorm:"not null;default:0" json:"experience_years"`
	Bio             string            `gorm:"type:text" json:"bio,omitempty"`
	Status          InterpreterStatus `gorm:"type:varchar(20);not null;default:'inactive';index" json:"status"`
	Version         int               `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Interpreter) TableName() string {
	return "interpreters"
}

func (i *Interpreter) IsActive() bool {
	return i.Status == InterpreterStatusActive
}

func (i *Interpreter) TransitionTo(next InterpreterStatus) error {
	if err := interpreterTransitions.check(i.Status, next); err != nil {
		return err
	}
	i.Status = next
	return nil
}

// Covers reports whether one of the interpreter's specializations matches
// department, ignoring case and surrounding space.
func (i *Interpreter) Covers(department string) bool {
	department = strings.TrimSpace(department)
	for _, s := range i.Specializations {
		if strings.EqualFold(strings.TrimSpace(s), department) {
			return true
		}
	}
	return false
}
