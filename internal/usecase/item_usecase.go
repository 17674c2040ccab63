package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/internal/domain/service"
	"slawn/pkg/errors"
	"slawn/pkg/logger"
	"slawn/pkg/validation"
)

const unknownAuthor = "Unknown"

type ItemUseCase struct {
	itemRepo      repository.ItemRepository
	characterRepo repository.CharacterRepository
	uploader      service.FileUploadService
	authors       AuthorCache
	now           func() time.Time
}

func NewItemUseCase(
	itemRepo repository.ItemRepository,
	characterRepo repository.CharacterRepository,
	uploader service.FileUploadService,
	authors AuthorCache,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:      itemRepo,
		characterRepo: characterRepo,
		uploader:      uploader,
		authors:       authors,
		now:           time.Now,
	}
}

type ItemView struct {
	*entity.Item
	AuthorName    string               `json:"author_name"`
	PurchaseRoute entity.PurchaseRoute `json:"purchase_route"`
}

type CreateItemInput struct {
	Title        string  `json:"title" form:"title" validate:"required"`
	Description  string  `json:"description" form:"description"`
	Price        float64 `json:"price" form:"price" validate:"gte=0"`
	Category     string  `json:"category" form:"category" validate:"required"`
	DeliveryType string  `json:"delivery_type" form:"delivery_type" validate:"required,oneof=download delivery"`
}

// StoreView is a seller's public storefront. Profile is nil for sellers who
// never created one.
type StoreView struct {
	SellerID string            `json:"seller_id"`
	Profile  *entity.Character `json:"profile"`
	Items    []*ItemView       `json:"items"`
}

type UpdateStoreAboutInput struct {
	About string `json:"about" validate:"max=1000"`
}

// Upload is an optional media file attached to a new item.
type Upload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
}

func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*ItemView, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views := uc.withAuthors(ctx, []*entity.Item{item})
	return views[0], nil
}

// ListItems returns the storefront, newest first.
func (uc *ItemUseCase) ListItems(ctx context.Context, category string, limit int) ([]*ItemView, error) {
	items, err := uc.itemRepo.List(ctx, category, limit)
	if err != nil {
		return nil, err
	}
	return uc.withAuthors(ctx, items), nil
}

func (uc *ItemUseCase) ListSellerItems(ctx context.Context, sellerID string, limit int) ([]*ItemView, error) {
	items, err := uc.itemRepo.ListBySeller(ctx, sellerID, limit)
	if err != nil {
		return nil, err
	}
	return uc.withAuthors(ctx, items), nil
}

func (uc *ItemUseCase) GetStore(ctx context.Context, sellerID string, limit int) (*StoreView, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return nil, errors.BadRequest("Seller id is required", nil)
	}

	profile, err := uc.characterRepo.GetByUserID(ctx, sellerID)
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
		profile = nil
	}

	items, err := uc.ListSellerItems(ctx, sellerID, limit)
	if err != nil {
		return nil, err
	}

	return &StoreView{
		SellerID: sellerID,
		Profile:  profile,
		Items:    items,
	}, nil
}

// UpdateStoreAbout edits the description shown on the caller's storefront.
// The caller must already have a profile.
func (uc *ItemUseCase) UpdateStoreAbout(ctx context.Context, seller *entity.Principal, input UpdateStoreAboutInput) (*entity.Character, error) {
	input.About = strings.TrimSpace(input.About)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	profile, err := uc.characterRepo.UpdateStoreAbout(ctx, seller.ID, input.About)
	if err != nil {
		return nil, err
	}

	logger.Info("Store description updated by %s", seller.ID)
	return profile, nil
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, seller *entity.Principal, input CreateItemInput, upload *Upload) (*ItemView, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	delivery, err := entity.ParseDeliveryType(input.DeliveryType)
	if err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}

	item := &entity.Item{
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    input.Category,
		SellerID:    seller.ID,
		SellerEmail: seller.Email,
		Delivery:    delivery,
		CreatedAt:   uc.now(),
	}

	if upload != nil && upload.Reader != nil {
		url, err := uc.uploader.UploadFile(ctx, upload.Reader, upload.FileName, upload.ContentType, "items/"+seller.ID)
		if err != nil {
			return nil, errors.Internal("Failed to upload item media", err)
		}
		item.FileURL = url
		item.FileName = upload.FileName
		item.FileType = upload.ContentType
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	logger.Info("Item %s created by %s", item.ID, seller.ID)
	return uc.withAuthors(ctx, []*entity.Item{item})[0], nil
}

// RefreshAuthors drops every cached author name.
func (uc *ItemUseCase) RefreshAuthors(ctx context.Context) error {
	if err := uc.authors.Clear(ctx); err != nil {
		return errors.Internal("Failed to clear author cache", err)
	}
	return nil
}

// withAuthors resolves seller names through the cache, loading the misses in
// one batched query. Sellers without a profile are cached as unknown.
func (uc *ItemUseCase) withAuthors(ctx context.Context, items []*entity.Item) []*ItemView {
	names := make(map[string]string)
	var missing []string
	for _, item := range items {
		if _, done := names[item.SellerID]; done || item.SellerID == "" {
			continue
		}
		if name, ok := uc.authors.Get(ctx, item.SellerID); ok {
			names[item.SellerID] = name
			continue
		}
		names[item.SellerID] = unknownAuthor
		missing = append(missing, item.SellerID)
	}

	if len(missing) > 0 {
		profiles, err := uc.characterRepo.GetByUserIDs(ctx, missing)
		if err != nil {
			logger.Warn("Failed to resolve %d author names: %v", len(missing), err)
		} else {
			for _, id := range missing {
				name := unknownAuthor
				if c, ok := profiles[id]; ok && c.Author != "" {
					name = c.Author
				}
				names[id] = name
				uc.authors.Put(ctx, id, name)
			}
		}
	}

	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		name, ok := names[item.SellerID]
		if !ok {
			name = unknownAuthor
		}
		views = append(views, &ItemView{
			Item:          item,
			AuthorName:    name,
			PurchaseRoute: entity.ClassifyPurchase(item),
		})
	}
	return views
}
