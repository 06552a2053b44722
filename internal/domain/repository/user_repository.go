package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindAll(db *gorm.DB, q listing.Query) ([]entity.User, int64, error)
	FindIDsByRole(db *gorm.DB, role string) ([]uuid.UUID, error)
	// Update writes the mutable fields when user.Version still matches the
	// stored row and returns the number of rows affected.
	Update(db *gorm.DB, user *entity.User) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
