package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"medical-tourism-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrHubStopped is returned by Subscribe after Stop.
var ErrHubStopped = errors.New("notification hub stopped")

const notificationChannelPrefix = "notifications:"

// NotificationChannel is the Redis pub/sub channel carrying a user's
// notifications.
func NotificationChannel(userID uuid.UUID) string {
	return notificationChannelPrefix + userID.String()
}

// NotificationHub fans persisted notifications out to live subscribers over
// Redis pub/sub, so every API instance can serve any user's stream.
type NotificationHub struct {
	redisClient *redis.Client
	log         *logrus.Logger

	// Graceful shutdown
	// mu orders Stop against subscriptions registering with wg.
	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  bool
}

func NewNotificationHub(redisClient *redis.Client, log *logrus.Logger) *NotificationHub {
	return &NotificationHub{
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}
}

// Stop ends every open subscription and waits for them to drain.
// Safe to call multiple times.
func (h *NotificationHub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	close(h.stopChan)
	h.mu.Unlock()

	h.wg.Wait()
	h.log.Info("NotificationHub stopped")
}

// Publish sends n to the owner's channel. Delivery is best effort: the
// notification is already stored and will show up in the next list.
func (h *NotificationHub) Publish(ctx context.Context, n *entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return h.redisClient.Publish(ctx, NotificationChannel(n.UserID), payload).Err()
}

// Subscribe streams the user's notifications until ctx is cancelled or the
// hub stops, then closes the returned channel.
func (h *NotificationHub) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan entity.Notification, error) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil, ErrHubStopped
	}
	h.wg.Add(1)
	h.mu.Unlock()

	pubsub := h.redisClient.Subscribe(ctx, NotificationChannel(userID))
	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		h.wg.Done()
		return nil, err
	}

	out := make(chan entity.Notification)
	go func() {
		defer h.wg.Done()
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.stopChan:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var n entity.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					h.log.Warnf("Dropping malformed notification on %s: %+v", msg.Channel, err)
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				case <-h.stopChan:
					return
				}
			}
		}
	}()

	return out, nil
}
