package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenKind distinguishes access and refresh tokens in Redis keys.
type TokenKind string

const (
	AccessTokenKind  TokenKind = "access_token"
	RefreshTokenKind TokenKind = "refresh_token"
)

// TokenStore keeps issued token ids in Redis so they can be revoked before expiry.
// Keys look like "<kind>:<user id>:<token id>".
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func tokenKey(kind TokenKind, userID int64, tokenID string) string {
	return fmt.Sprintf("%s:%d:%s", kind, userID, tokenID)
}

// Register marks a token id as valid until ttl elapses.
func (s *TokenStore) Register(ctx context.Context, kind TokenKind, userID int64, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

// Valid reports whether the token id is still registered.
func (s *TokenStore) Valid(ctx context.Context, kind TokenKind, userID int64, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Revoke removes a single token id.
func (s *TokenStore) Revoke(ctx context.Context, kind TokenKind, userID int64, tokenID string) error {
	return s.client.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}

// RevokeUser removes every token of a user, e.g. after a password change or deactivation.
func (s *TokenStore) RevokeUser(ctx context.Context, userID int64) error {
	for _, kind := range []TokenKind{AccessTokenKind, RefreshTokenKind} {
		pattern := fmt.Sprintf("%s:%d:*", kind, userID)
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
