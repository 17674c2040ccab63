package handler

import (
	"context"

	"slawn/internal/domain/entity"
	"slawn/internal/usecase"
)

type ItemService interface {
	GetItem(ctx context.Context, id string) (*usecase.ItemView, error)
	ListItems(ctx context.Context, category string, limit int) ([]*usecase.ItemView, error)
	ListSellerItems(ctx context.Context, sellerID string, limit int) ([]*usecase.ItemView, error)
	CreateItem(ctx context.Context, seller *entity.Principal, input usecase.CreateItemInput, upload *usecase.Upload) (*usecase.ItemView, error)
	RefreshAuthors(ctx context.Context) error
	GetStore(ctx context.Context, sellerID string, limit int) (*usecase.StoreView, error)
	UpdateStoreAbout(ctx context.Context, seller *entity.Principal, input usecase.UpdateStoreAboutInput) (*entity.Character, error)
}

type OrderService interface {
	ClassifyPurchase(ctx context.Context, itemID string) (*entity.Item, entity.PurchaseRoute, error)
	SubmitShippingOrder(ctx context.Context, buyer *entity.Principal, itemID string, address entity.ShippingAddress) (*entity.Order, error)
	StartCheckout(ctx context.Context, buyer *entity.Principal, itemID, orderID string) (*usecase.CheckoutSession, error)
	HandleCheckoutEvent(ctx context.Context, buyer *entity.Principal, raw []byte, itemID, orderID string) (*usecase.CheckoutOutcome, error)
	AdvanceOrderStage(ctx context.Context, actor *entity.Principal, orderID string, next entity.OrderStatus) (*usecase.OrderView, error)
	CancelOrder(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error)
	MarkDelivered(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error)
	GetOrder(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error)
	ListBuyerOrders(ctx context.Context, actor *entity.Principal, limit int) ([]*usecase.OrderView, error)
	ListPurchases(ctx context.Context, actor *entity.Principal, limit int) ([]*usecase.Purchase, error)
	ListTransactions(ctx context.Context, actor *entity.Principal, limit int) ([]*entity.Transaction, error)
}

type ChatService interface {
	SendMessage(ctx context.Context, sender *entity.Principal, recipientID, text string) (string, error)
	MarkRead(ctx context.Context, chatID, readerID string) error
	ListConversations(ctx context.Context, userID string) *usecase.ConversationIterator
	WatchConversations(ctx context.Context, userID string) *usecase.Subscription[[]*entity.ConversationSummary]
	StreamMessages(ctx context.Context, chatID, readerID string) (*usecase.Subscription[[]*entity.Message], error)
}
