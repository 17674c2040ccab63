package repository

import (
	"context"

	"slawn/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, category string, limit int) ([]*entity.Item, error)
	ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.Item, error)
	// IncrementBuys applies an atomic server-side increment to the purchase counter.
	IncrementBuys(ctx context.Context, id string, delta int64) error
}
