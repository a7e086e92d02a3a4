package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// AccountCache implements usecase.AccountCache using Redis.
type AccountCache struct {
	client *redis.Client
	prefix string
}

// NewAccountCache creates a new AccountCache.
func NewAccountCache(client *redis.Client) *AccountCache {
	return &AccountCache{
		client: client,
		prefix: "account:",
	}
}

// GetAccountID returns the cached id for accountNumber. ok is false on a miss.
func (c *AccountCache) GetAccountID(ctx context.Context, accountNumber string) (string, bool, error) {
	id, err := c.client.Get(ctx, c.prefix+accountNumber).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return id, true, nil
}

// SetAccountID caches the id for accountNumber.
func (c *AccountCache) SetAccountID(ctx context.Context, accountNumber, id string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+accountNumber, id, ttl).Err()
}

// DeleteAccountID removes a cached lookup.
func (c *AccountCache) DeleteAccountID(ctx context.Context, accountNumber string) error {
	return c.client.Del(ctx, c.prefix+accountNumber).Err()
}
