package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/pkg/errors"
)

const (
	charactersCollection = "characters"
	// Firestore caps the number of values in an "in" filter.
	maxInValues = 30
)

type firestoreCharacterRepository struct {
	client *firestore.Client
}

func NewFirestoreCharacterRepository(client *firestore.Client) repository.CharacterRepository {
	return &firestoreCharacterRepository{
		client: client,
	}
}

func (r *firestoreCharacterRepository) GetByUserID(ctx context.Context, userID string) (*entity.Character, error) {
	iter := r.client.Collection(charactersCollection).Where("userId", "==", userID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Character", nil)
		}
		return nil, errors.Internal("Failed to query character", err)
	}

	return characterFromDoc(doc)
}

func (r *firestoreCharacterRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*entity.Character, error) {
	result := make(map[string]*entity.Character, len(userIDs))

	for start := 0; start < len(userIDs); start += maxInValues {
		end := start + maxInValues
		if end > len(userIDs) {
			end = len(userIDs)
		}

		iter := r.client.Collection(charactersCollection).
			Where("userId", "in", userIDs[start:end]).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, errors.Internal("Failed to query characters", err)
			}

			character, err := characterFromDoc(doc)
			if err != nil {
				iter.Stop()
				return nil, err
			}
			result[character.UserID] = character
		}
		iter.Stop()
	}

	return result, nil
}

func (r *firestoreCharacterRepository) UpdateStoreAbout(ctx context.Context, userID, about string) (*entity.Character, error) {
	iter := r.client.Collection(charactersCollection).Where("userId", "==", userID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Character", nil)
		}
		return nil, errors.Internal("Failed to query character", err)
	}

	_, err = doc.Ref.Update(ctx, []firestore.Update{{Path: "storeAbout", Value: about}})
	if err != nil {
		return nil, errors.Internal("Failed to update store", err)
	}

	character, err := characterFromDoc(doc)
	if err != nil {
		return nil, err
	}
	character.StoreAbout = about
	return character, nil
}

func characterFromDoc(doc *firestore.DocumentSnapshot) (*entity.Character, error) {
	var character entity.Character
	if err := doc.DataTo(&character); err != nil {
		return nil, errors.Internal("Failed to parse character data", err)
	}
	character.ID = doc.Ref.ID
	return &character, nil
}
