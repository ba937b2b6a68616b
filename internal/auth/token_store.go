package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"aiiabox/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	apiTokenKeyPrefix     = "api_token:"

	// APITokenCacheTTL bounds how long a revoked API token may keep resolving.
	APITokenCacheTTL = 5 * time.Minute
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	CacheAPIToken(ctx context.Context, key string, userID uint) error
	LookupAPIToken(ctx context.Context, key string) (userID uint, ok bool)
	EvictAPIToken(ctx context.Context, key string) error
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id": userID,
		"email":   email,
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}

	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("refresh token not found")
	}

	var tokenData map[string]interface{}
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return 0, "", fmt.Errorf("unmarshal token data: %w", err)
	}

	uid, ok := tokenData["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user_id in token data")
	}
	userID = uint(uid)

	email, ok = tokenData["email"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid email in token data")
	}

	return userID, email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Delete(ctx, key)
}

// CacheAPIToken records an API token to user mapping so later requests skip
// the database lookup.
func (s *TokenStore) CacheAPIToken(ctx context.Context, key string, userID uint) error {
	return s.cache.Set(ctx, apiTokenKeyPrefix+key, []byte(strconv.FormatUint(uint64(userID), 10)), APITokenCacheTTL)
}

// LookupAPIToken resolves a cached API token. A miss (or unavailable redis)
// returns ok=false and the caller falls back to the database.
func (s *TokenStore) LookupAPIToken(ctx context.Context, key string) (uint, bool) {
	data, err := s.cache.Get(ctx, apiTokenKeyPrefix+key)
	if err != nil || data == nil {
		return 0, false
	}
	userID, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// EvictAPIToken drops a cached API token, used when a token is regenerated.
func (s *TokenStore) EvictAPIToken(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, apiTokenKeyPrefix+key)
}
