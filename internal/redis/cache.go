package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// OperatorCacheTTL bounds how stale a tracked operator status may be.
const OperatorCacheTTL = 30 * time.Second

const (
	operatorCachePrefix = "cache:operator:"
	onlineOperatorsKey  = "online_operators"
)

// CachedOperator is the cached view of an operator used for tracking.
type CachedOperator struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
	Verification string `json:"verification"`
}

func operatorKey(id int64) string {
	return operatorCachePrefix + strconv.FormatInt(id, 10)
}

// GetOperator retrieves an operator from cache. A miss returns nil, nil.
func (s *CacheStore) GetOperator(ctx context.Context, operatorID int64) (*CachedOperator, error) {
	data, err := s.client.Get(ctx, operatorKey(operatorID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var op CachedOperator
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// SetOperator stores an operator in cache.
func (s *CacheStore) SetOperator(ctx context.Context, op *CachedOperator) error {
	data, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, operatorKey(op.ID), data, OperatorCacheTTL).Err()
}

// InvalidateOperator removes an operator from cache.
func (s *CacheStore) InvalidateOperator(ctx context.Context, operatorID int64) error {
	return s.client.Del(ctx, operatorKey(operatorID)).Err()
}

// AddOnlineOperator marks an operator as online.
func (s *CacheStore) AddOnlineOperator(ctx context.Context, operatorID int64) error {
	return s.client.SAdd(ctx, onlineOperatorsKey, operatorID).Err()
}

// RemoveOnlineOperator removes an operator from the online set.
func (s *CacheStore) RemoveOnlineOperator(ctx context.Context, operatorID int64) error {
	return s.client.SRem(ctx, onlineOperatorsKey, operatorID).Err()
}

// GetOnlineOperators returns the ids in the online set.
func (s *CacheStore) GetOnlineOperators(ctx context.Context) ([]int64, error) {
	members, err := s.client.SMembers(ctx, onlineOperatorsKey).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
