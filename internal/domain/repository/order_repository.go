package repository

import (
	"context"

	"slawn/internal/domain/entity"
)

// OrderMutation changes an order in place. Returning an error aborts the write.
type OrderMutation func(order *entity.Order) error

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Order, error)
	// Mutate reads the order, applies fn and writes it back atomically.
	Mutate(ctx context.Context, id string, fn OrderMutation) (*entity.Order, error)
}
