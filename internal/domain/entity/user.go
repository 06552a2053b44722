package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role values
const (
	RoleUser        = "user"
	RoleAdmin       = "admin"
	RoleInterpreter = "interpreter"
)

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleInterpreter
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

var userTransitions = transitionTable[UserStatus]{
	UserStatusActive:    {UserStatusSuspended},
	UserStatusSuspended: {UserStatusActive},
}

// User is the account behind every patient, interpreter and admin.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"type:text;not null" json:"-"`
	FullName          string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone             string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Nationality       string     `gorm:"type:varchar(80)" json:"nationality,omitempty"`
	PreferredLanguage string     `gorm:"type:varchar(40)" json:"preferred_language,omitempty"`
	Role              string     `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	Status            UserStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Version           int        `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// TransitionTo moves the account to next if the transition is allowed.
// Setting the current status again is a no-op.
func (u *User) TransitionTo(next UserStatus) error {
	if next == u.Status {
		return nil
	}
	if err := userTransitions.check(u.Status, next); err != nil {
		return err
	}
	u.Status = next
	return nil
}
