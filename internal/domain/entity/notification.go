package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds
const (
	NotificationReservationCreated  = "reservation.created"
	NotificationReservationStatus   = "reservation.status"
	NotificationInterpreterAssigned = "reservation.interpreter_assigned"
	NotificationInterpreterStatus   = "interpreter.status"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        string     `gorm:"type:varchar(60);not null" json:"kind"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
