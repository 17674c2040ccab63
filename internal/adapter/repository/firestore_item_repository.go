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

const itemsCollection = "items"

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = r.client.Collection(itemsCollection).NewDoc().ID
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(itemsCollection).Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create item", err)
	}

	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection(itemsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	return itemFromDoc(doc)
}

func (r *firestoreItemRepository) List(ctx context.Context, category string, limit int) ([]*entity.Item, error) {
	query := r.client.Collection(itemsCollection).Query
	if category != "" {
		query = query.Where("category", "==", category)
	}
	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.collect(query.Documents(ctx))
}

func (r *firestoreItemRepository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.Item, error) {
	query := r.client.Collection(itemsCollection).
		Where("userId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.collect(query.Documents(ctx))
}

func (r *firestoreItemRepository) IncrementBuys(ctx context.Context, id string, delta int64) error {
	_, err := r.client.Collection(itemsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "buys", Value: firestore.Increment(delta)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to increment item buys", err)
	}

	return nil
}

func (r *firestoreItemRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Item, error) {
	defer iter.Stop()

	var items []*entity.Item
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate items", err)
		}

		item, err := itemFromDoc(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func itemFromDoc(doc *firestore.DocumentSnapshot) (*entity.Item, error) {
	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	item.ID = doc.Ref.ID
	return &item, nil
}
