package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"medical-tourism-concierge/internal/service"
	"medical-tourism-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

type IdempotencyMiddleware struct {
	store *service.IdempotencyStore
	log   *logrus.Logger
}

func NewIdempotencyMiddleware(store *service.IdempotencyStore, log *logrus.Logger) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{
		store: store,
		log:   log,
	}
}

// IdempotencyKey builds the Redis key under which a response is stored.
func IdempotencyKey(userID, method, path, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s:%s", userID, method, path, key)
}

// Handle replays the stored response of a write request that carries an
// already used Idempotency-Key. It must run after Authenticate.
func (m *IdempotencyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" || !isWriteMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.BadRequest(w, "Idempotency-Key is too long")
			return
		}

		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "User not authenticated")
			return
		}
		storeKey := IdempotencyKey(userID.String(), r.Method, r.URL.Path, key)

		record, err := m.store.Begin(r.Context(), storeKey)
		if errors.Is(err, service.ErrRequestInFlight) {
			response.Conflict(w, err.Error())
			return
		}
		if err != nil {
			m.log.Warnf("Failed to check idempotency key %s: %+v", storeKey, err)
			response.InternalServerError(w, "Failed to check idempotency key")
			return
		}
		if record != nil {
			if record.ContentType != "" {
				w.Header().Set("Content-Type", record.ContentType)
			}
			w.Header().Set(IdempotentReplayedHeader, "true")
			w.WriteHeader(record.StatusCode)
			w.Write(record.Body)
			return
		}

		rec := newResponseRecorder(w, true)
		next.ServeHTTP(rec, r)

		// The client may retry after a server error, so its key is released
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		defer cancel()

		if rec.Status() >= http.StatusInternalServerError {
			if err := m.store.Release(ctx, storeKey); err != nil {
				m.log.Warnf("Failed to release idempotency key %s: %+v", storeKey, err)
			}
			return
		}

		err = m.store.Complete(ctx, storeKey, &service.IdempotencyRecord{
			StatusCode:  rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.capture.Bytes(),
		})
		if err != nil {
			m.log.Warnf("Failed to store idempotent response %s: %+v", storeKey, err)
		}
	})
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
