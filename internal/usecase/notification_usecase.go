package usecase

import (
	"context"
	"errors"

	"medical-tourism-concierge/internal/converter"
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationSubscriber streams live notifications of one user.
type NotificationSubscriber interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan entity.Notification, error)
}

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, q listing.Query) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	// Stream delivers notifications published after the call until ctx is done.
	Stream(ctx context.Context, userID uuid.UUID) (<-chan dto.NotificationResponse, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	subscriber       NotificationSubscriber
}

func NewNotificationUsecase(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository, subscriber NotificationSubscriber) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		subscriber:       subscriber,
	}
}

func (u *notificationUsecase) List(ctx context.Context, userID uuid.UUID, q listing.Query) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := u.notificationRepo.FindByUserID(u.db.WithContext(ctx), userID, q)
	if err != nil {
		u.log.Warnf("Failed to list notifications of user %s: %+v", userID, err)
		return nil, 0, err
	}
	return converter.NotificationsToResponses(notifications), total, nil
}

// MarkRead fails with ErrNotificationNotFound for someone else's
// notification or one that was already read.
func (u *notificationUsecase) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	affected, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), id, userID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %s read: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) Stream(ctx context.Context, userID uuid.UUID) (<-chan dto.NotificationResponse, error) {
	in, err := u.subscriber.Subscribe(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to subscribe to notifications of user %s: %+v", userID, err)
		return nil, err
	}

	out := make(chan dto.NotificationResponse)
	go func() {
		defer close(out)
		for n := range in {
			select {
			case out <- *converter.NotificationToResponse(&n):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
