package repository

import (
	"context"

	"slawn/internal/domain/entity"
)

type TransactionRepository interface {
	// Record stores the ledger row keyed by its payment reference. created is
	// false when a row for that reference already existed; that is not an error.
	Record(ctx context.Context, txn *entity.Transaction) (created bool, err error)
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Transaction, error)
	List(ctx context.Context, limit int) ([]*entity.Transaction, error)
}
