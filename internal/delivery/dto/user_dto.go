package dto

// Request DTOs

type CreateUserRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	FullName          string `json:"full_name" validate:"required,min=2,max=255"`
	Role              string `json:"role" validate:"required,oneof=user admin interpreter"`
	Phone             string `json:"phone" validate:"omitempty,min=6,max=30"`
	Nationality       string `json:"nationality" validate:"omitempty,max=80"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,max=40"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Role     string `json:"role" validate:"required,oneof=user admin interpreter"`
	Status   string `json:"status" validate:"required"`
	Version  int    `json:"version" validate:"required,min=1"`
}
