package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"

	scanBatchSize = 100
)

// TokenRegistry tracks issued JWTs in Redis. A token is valid only while its
// key exists, which makes logout and revocation immediate.
type TokenRegistry struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenRegistry(redisClient *redis.Client, log *logrus.Logger) *TokenRegistry {
	return &TokenRegistry{
		redisClient: redisClient,
		log:         log,
	}
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenKeyPrefix, userID, tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenKeyPrefix, userID, tokenID)
}

// Store registers an access/refresh token pair.
func (r *TokenRegistry) Store(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessKey(userID, accessID), "valid", accessTTL)
		pipe.Set(ctx, refreshKey(userID, refreshID), "valid", refreshTTL)
		return nil
	})
	if err != nil {
		r.log.Warnf("Failed to store tokens for user %s: %+v", userID, err)
	}
	return err
}

func (r *TokenRegistry) IsAccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, accessKey(userID, tokenID)).Result()
	return n > 0, err
}

// ConsumeRefresh deletes the refresh token and reports whether it existed.
// A refresh token can therefore be exchanged only once.
func (r *TokenRegistry) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.redisClient.Del(ctx, refreshKey(userID, tokenID)).Result()
	return n > 0, err
}

// Revoke removes the given access and refresh tokens. Empty ids are skipped.
func (r *TokenRegistry) Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error {
	var keys []string
	if accessID != "" {
		keys = append(keys, accessKey(userID, accessID))
	}
	if refreshID != "" {
		keys = append(keys, refreshKey(userID, refreshID))
	}
	if len(keys) == 0 {
		return nil
	}
	return r.redisClient.Del(ctx, keys...).Err()
}

// RevokeAll removes every token issued to the user.
func (r *TokenRegistry) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		if err := r.deleteMatching(ctx, fmt.Sprintf("%s:%s:*", prefix, userID)); err != nil {
			r.log.Warnf("Failed to revoke %s keys for user %s: %+v", prefix, userID, err)
			return err
		}
	}
	return nil
}

// deleteMatching walks the keyspace with SCAN and deletes each batch.
func (r *TokenRegistry) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.redisClient.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
