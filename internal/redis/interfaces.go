package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for request decision locks.
type LockStoreInterface interface {
	AcquireRequestLock(ctx context.Context, requestID int64, ttl time.Duration) (string, bool, error)
	ReleaseRequestLock(ctx context.Context, requestID int64, token string) error
}

// OperatorCacheInterface defines the interface for operator status caching.
type OperatorCacheInterface interface {
	GetOperator(ctx context.Context, operatorID int64) (*CachedOperator, error)
	SetOperator(ctx context.Context, op *CachedOperator) error
	InvalidateOperator(ctx context.Context, operatorID int64) error
	AddOnlineOperator(ctx context.Context, operatorID int64) error
	RemoveOnlineOperator(ctx context.Context, operatorID int64) error
	GetOnlineOperators(ctx context.Context) ([]int64, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ OperatorCacheInterface = (*CacheStore)(nil)
)
