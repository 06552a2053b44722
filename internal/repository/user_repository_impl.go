package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userListSpec = listing.Spec{
	SearchColumns: []string{"users.email", "users.full_name"},
	Filters: map[string]listing.FilterFunc{
		"role":   listing.Equals("users.role"),
		"status": listing.Equals("users.status"),
	},
	Sorts: map[string]string{
		"email":      "users.email",
		"full_name":  "users.full_name",
		"created_at": "users.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "users.id",
}

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Where("email = ?", email), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Where("id = ?", id), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.User, int64, error) {
	var users []entity.User
	total, err := findPage(db, &entity.User{}, &users, userListSpec, q, nil)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) FindIDsByRole(db *gorm.DB, role string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&entity.User{}).
		Where("role = ? AND status = ?", role, entity.UserStatusActive).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) (int64, error) {
	return updateVersioned(db, &entity.User{}, user.ID, user.Version, map[string]interface{}{
		"full_name":          user.FullName,
		"phone":              user.Phone,
		"nationality":        user.Nationality,
		"preferred_language": user.PreferredLanguage,
		"role":               user.Role,
		"status":             user.Status,
	})
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.User{}).Error
}
