package repository

import (
	"time"

	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var notificationListSpec = listing.Spec{
	SearchColumns: []string{"notifications.title", "notifications.message"},
	Filters: map[string]listing.FilterFunc{
		"user_id": listing.UUIDEquals("notifications.user_id"),
		"kind":    listing.Equals("notifications.kind"),
		"unread": func(db *gorm.DB, value string) *gorm.DB {
			if value == "true" {
				return db.Where("notifications.read_at IS NULL")
			}
			return db
		},
	},
	Sorts: map[string]string{
		"created_at": "notifications.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "notifications.id",
}

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) FindByUserID(db *gorm.DB, userID uuid.UUID, q listing.Query) ([]entity.Notification, int64, error) {
	var notifications []entity.Notification
	q = q.WithFilter("user_id", userID.String())
	total, err := findPage(db, &entity.Notification{}, &notifications, notificationListSpec, q, nil)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(db *gorm.DB, id, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}
