package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterRequest signs up a patient, or an interpreter when role is
// "interpreter". Interpreters start inactive until an admin approves them.
type RegisterRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=8"`
	FullName          string   `json:"full_name" validate:"required,min=2,max=255"`
	Phone             string   `json:"phone" validate:"omitempty,min=6,max=30"`
	Nationality       string   `json:"nationality" validate:"omitempty,max=80"`
	PreferredLanguage string   `json:"preferred_language" validate:"omitempty,max=40"`
	Role              string   `json:"role" validate:"omitempty,oneof=user interpreter"`
	Specializations   []string `json:"specializations" validate:"required_if=Role interpreter,dive,required,max=120"`
	Languages         []string `json:"languages" validate:"required_if=Role interpreter,dive,required,max=40"`
	ExperienceYears   int      `json:"experience_years" validate:"gte=0,lte=80"`
	Bio               string   `json:"bio" validate:"omitempty,max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName          string `json:"full_name" validate:"required,min=2,max=255"`
	Phone             string `json:"phone" validate:"omitempty,min=6,max=30"`
	Nationality       string `json:"nationality" validate:"omitempty,max=80"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,max=40"`
	Version           int    `json:"version" validate:"required,min=1"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	Phone             string    `json:"phone,omitempty"`
	Nationality       string    `json:"nationality,omitempty"`
	PreferredLanguage string    `json:"preferred_language,omitempty"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
