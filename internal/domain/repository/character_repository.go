package repository

import (
	"context"

	"slawn/internal/domain/entity"
)

// CharacterRepository reads seller profiles. Profile documents carry their
// owner in the userId field and are not keyed by it.
type CharacterRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Character, error)
	// GetByUserIDs returns the profiles that exist, keyed by user id.
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*entity.Character, error)
	// UpdateStoreAbout rewrites the store description of the profile owned by
	// userID and returns the updated profile.
	UpdateStoreAbout(ctx context.Context, userID, about string) (*entity.Character, error)
}
