package usecase

import (
	"context"

	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationPublisher pushes a stored notification to live subscribers.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
}

// notifier stores notifications inside the caller's transaction and
// publishes them once that transaction has committed.
type notifier struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	publisher        NotificationPublisher
}

type notice struct {
	kind        string
	title       string
	message     string
	referenceID *uuid.UUID
}

func (n *notifier) stage(tx *gorm.DB, recipients []uuid.UUID, msg notice) ([]*entity.Notification, error) {
	staged := make([]*entity.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notification := &entity.Notification{
			UserID:      userID,
			Kind:        msg.kind,
			Title:       msg.title,
			Message:     msg.message,
			ReferenceID: msg.referenceID,
		}
		if err := n.notificationRepo.Create(tx, notification); err != nil {
			return nil, err
		}
		staged = append(staged, notification)
	}
	return staged, nil
}

// publish is best effort; stored notifications stay listable either way.
func (n *notifier) publish(ctx context.Context, notifications []*entity.Notification) {
	for _, notification := range notifications {
		if err := n.publisher.Publish(ctx, notification); err != nil {
			n.log.Warnf("Failed to publish notification %s to user %s: %+v", notification.ID, notification.UserID, err)
		}
	}
}
