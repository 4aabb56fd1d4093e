// Package cache provides a Redis-backed read cache for per-owner loan lists.
// Writes to a loan invalidate the owner's cached list; a cache miss or Redis
// outage falls through to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

const loanListKeyPrefix = "loans:owner:"

// LoanCache caches loan lists keyed by owner id.
type LoanCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLoanCache constructs a cache over the given client. A nil client
// disables caching; every method becomes a no-op miss.
func NewLoanCache(client *redis.Client, ttl time.Duration) *LoanCache {
	return &LoanCache{client: client, ttl: ttl}
}

// GetOwnerLoans returns the cached list for the owner, reporting whether it was present.
func (c *LoanCache) GetOwnerLoans(ctx context.Context, ownerID string) ([]domain.Loan, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, loanListKeyPrefix+ownerID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var loans []domain.Loan
	if err := json.Unmarshal([]byte(val), &loans); err != nil {
		return nil, false, err
	}
	return loans, true, nil
}

// SetOwnerLoans stores the owner's loan list.
func (c *LoanCache) SetOwnerLoans(ctx context.Context, ownerID string, loans []domain.Loan) error {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := json.Marshal(loans)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, loanListKeyPrefix+ownerID, b, c.ttl).Err()
}

// InvalidateOwner drops the owner's cached list after a write.
func (c *LoanCache) InvalidateOwner(ctx context.Context, ownerID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, loanListKeyPrefix+ownerID).Err()
}
