package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/usecase"
	"medical-tourism-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

const streamHeartbeat = 25 * time.Second

var notificationFilterKeys = []string{"kind", "unread"}

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	log                 *logrus.Logger
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		log:                 log,
	}
}

// ListNotifications
// @Summary List the caller's notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param kind query string false "Kind filter"
// @Success 200 {object} response.Response
// @Router /me/notifications [get]
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	q := listQuery(r, notificationFilterKeys...)
	notifications, total, err := h.notificationUsecase.List(r.Context(), userID, q)
	if err != nil {
		writeListError(w, err, "Failed to get notifications")
		return
	}

	writeList(w, "Notifications retrieved successfully", notifications, q, total)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			response.NotFound(w, "Notification not found or already read")
			return
		}
		response.InternalServerError(w, "Failed to mark notification read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}

// Stream pushes new notifications as server-sent events until the client
// disconnects.
// @Summary Stream notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce text/event-stream
// @Router /me/notifications/stream [get]
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut long-lived streams.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.log.Warnf("Failed to clear write deadline: %+v", err)
	}

	events, err := h.notificationUsecase.Stream(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to subscribe to notifications")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.log.Warnf("Streaming not supported: %+v", err)
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
		case n, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(n)
			if err != nil {
				h.log.Warnf("Failed to encode notification %s: %+v", n.ID, err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", n.ID, payload)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
