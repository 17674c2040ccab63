package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/pkg/errors"
)

const transactionsCollection = "transactions"

type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

// Record uses the payment reference as the document id, so a second write for
// the same reference fails with AlreadyExists instead of adding a row.
func (r *firestoreTransactionRepository) Record(ctx context.Context, txn *entity.Transaction) (bool, error) {
	if txn.Reference == "" {
		return false, errors.BadRequest("Payment reference is required", nil)
	}
	txn.ID = txn.Reference
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(transactionsCollection).Doc(txn.Reference).Create(ctx, txn)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *firestoreTransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	doc, err := r.client.Collection(transactionsCollection).Doc(reference).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}

	return transactionFromDoc(doc)
}

func (r *firestoreTransactionRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Transaction, error) {
	query := r.client.Collection(transactionsCollection).
		Where("buyerId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.collect(query.Documents(ctx))
}

func (r *firestoreTransactionRepository) List(ctx context.Context, limit int) ([]*entity.Transaction, error) {
	query := r.client.Collection(transactionsCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.collect(query.Documents(ctx))
}

func (r *firestoreTransactionRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Transaction, error) {
	defer iter.Stop()

	var txns []*entity.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate transactions", err)
		}

		txn, err := transactionFromDoc(doc)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, nil
}

func transactionFromDoc(doc *firestore.DocumentSnapshot) (*entity.Transaction, error) {
	var txn entity.Transaction
	if err := doc.DataTo(&txn); err != nil {
		return nil, errors.Internal("Failed to parse transaction data", err)
	}
	txn.ID = doc.Ref.ID
	return &txn, nil
}
