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

const ordersCollection = "orders"

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = r.client.Collection(ordersCollection).NewDoc().ID
	}

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Create(ctx, order)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Order already exists")
		}
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	return orderFromDoc(doc)
}

func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Order, error) {
	query := r.client.Collection(ordersCollection).
		Where("userId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate orders", err)
		}

		order, err := orderFromDoc(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *firestoreOrderRepository) Mutate(ctx context.Context, id string, fn repository.OrderMutation) (*entity.Order, error) {
	docRef := r.client.Collection(ordersCollection).Doc(id)

	var result *entity.Order
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		order, err := orderFromDoc(doc)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}

		result = order
		return tx.Set(docRef, order)
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to update order", err)
	}

	return result, nil
}

func orderFromDoc(doc *firestore.DocumentSnapshot) (*entity.Order, error) {
	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	order.ID = doc.Ref.ID
	return &order, nil
}
