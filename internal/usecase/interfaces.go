package usecase

import (
	"context"
	"time"
)

// AuthorCache maps seller user ids to display names.
type AuthorCache interface {
	Get(ctx context.Context, userID string) (string, bool)
	Put(ctx context.Context, userID, name string)
	Clear(ctx context.Context) error
}

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}
