package handler

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"slawn/internal/domain/entity"
	"slawn/internal/usecase"
)

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) GetItem(ctx context.Context, id string) (*usecase.ItemView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*usecase.ItemView)
	return view, args.Error(1)
}

func (m *mockItemService) ListItems(ctx context.Context, category string, limit int) ([]*usecase.ItemView, error) {
	args := m.Called(ctx, category, limit)
	views, _ := args.Get(0).([]*usecase.ItemView)
	return views, args.Error(1)
}

func (m *mockItemService) ListSellerItems(ctx context.Context, sellerID string, limit int) ([]*usecase.ItemView, error) {
	args := m.Called(ctx, sellerID, limit)
	views, _ := args.Get(0).([]*usecase.ItemView)
	return views, args.Error(1)
}

func (m *mockItemService) CreateItem(ctx context.Context, seller *entity.Principal, input usecase.CreateItemInput, upload *usecase.Upload) (*usecase.ItemView, error) {
	// the multipart reader is only valid during the call
	var body []byte
	if upload != nil && upload.Reader != nil {
		body, _ = io.ReadAll(upload.Reader)
	}
	args := m.Called(ctx, seller, input, upload, string(body))
	view, _ := args.Get(0).(*usecase.ItemView)
	return view, args.Error(1)
}

func (m *mockItemService) RefreshAuthors(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockItemService) GetStore(ctx context.Context, sellerID string, limit int) (*usecase.StoreView, error) {
	args := m.Called(ctx, sellerID, limit)
	store, _ := args.Get(0).(*usecase.StoreView)
	return store, args.Error(1)
}

func (m *mockItemService) UpdateStoreAbout(ctx context.Context, seller *entity.Principal, input usecase.UpdateStoreAboutInput) (*entity.Character, error) {
	args := m.Called(ctx, seller, input)
	profile, _ := args.Get(0).(*entity.Character)
	return profile, args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) ClassifyPurchase(ctx context.Context, itemID string) (*entity.Item, entity.PurchaseRoute, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(*entity.Item)
	return item, args.Get(1).(entity.PurchaseRoute), args.Error(2)
}

func (m *mockOrderService) SubmitShippingOrder(ctx context.Context, buyer *entity.Principal, itemID string, address entity.ShippingAddress) (*entity.Order, error) {
	args := m.Called(ctx, buyer, itemID, address)
	order, _ := args.Get(0).(*entity.Order)
	return order, args.Error(1)
}

func (m *mockOrderService) StartCheckout(ctx context.Context, buyer *entity.Principal, itemID, orderID string) (*usecase.CheckoutSession, error) {
	args := m.Called(ctx, buyer, itemID, orderID)
	session, _ := args.Get(0).(*usecase.CheckoutSession)
	return session, args.Error(1)
}

func (m *mockOrderService) HandleCheckoutEvent(ctx context.Context, buyer *entity.Principal, raw []byte, itemID, orderID string) (*usecase.CheckoutOutcome, error) {
	args := m.Called(ctx, buyer, string(raw), itemID, orderID)
	outcome, _ := args.Get(0).(*usecase.CheckoutOutcome)
	return outcome, args.Error(1)
}

func (m *mockOrderService) AdvanceOrderStage(ctx context.Context, actor *entity.Principal, orderID string, next entity.OrderStatus) (*usecase.OrderView, error) {
	args := m.Called(ctx, actor, orderID, next)
	view, _ := args.Get(0).(*usecase.OrderView)
	return view, args.Error(1)
}

func (m *mockOrderService) CancelOrder(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error) {
	args := m.Called(ctx, actor, orderID)
	view, _ := args.Get(0).(*usecase.OrderView)
	return view, args.Error(1)
}

func (m *mockOrderService) MarkDelivered(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error) {
	args := m.Called(ctx, actor, orderID)
	view, _ := args.Get(0).(*usecase.OrderView)
	return view, args.Error(1)
}

func (m *mockOrderService) GetOrder(ctx context.Context, actor *entity.Principal, orderID string) (*usecase.OrderView, error) {
	args := m.Called(ctx, actor, orderID)
	view, _ := args.Get(0).(*usecase.OrderView)
	return view, args.Error(1)
}

func (m *mockOrderService) ListBuyerOrders(ctx context.Context, actor *entity.Principal, limit int) ([]*usecase.OrderView, error) {
	args := m.Called(ctx, actor, limit)
	views, _ := args.Get(0).([]*usecase.OrderView)
	return views, args.Error(1)
}

func (m *mockOrderService) ListPurchases(ctx context.Context, actor *entity.Principal, limit int) ([]*usecase.Purchase, error) {
	args := m.Called(ctx, actor, limit)
	purchases, _ := args.Get(0).([]*usecase.Purchase)
	return purchases, args.Error(1)
}

func (m *mockOrderService) ListTransactions(ctx context.Context, actor *entity.Principal, limit int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, actor, limit)
	txns, _ := args.Get(0).([]*entity.Transaction)
	return txns, args.Error(1)
}

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) SendMessage(ctx context.Context, sender *entity.Principal, recipientID, text string) (string, error) {
	args := m.Called(ctx, sender, recipientID, text)
	return args.String(0), args.Error(1)
}

func (m *mockChatService) MarkRead(ctx context.Context, chatID, readerID string) error {
	return m.Called(ctx, chatID, readerID).Error(0)
}

func (m *mockChatService) ListConversations(ctx context.Context, userID string) *usecase.ConversationIterator {
	return m.Called(ctx, userID).Get(0).(*usecase.ConversationIterator)
}

func (m *mockChatService) WatchConversations(ctx context.Context, userID string) *usecase.Subscription[[]*entity.ConversationSummary] {
	return m.Called(ctx, userID).Get(0).(*usecase.Subscription[[]*entity.ConversationSummary])
}

func (m *mockChatService) StreamMessages(ctx context.Context, chatID, readerID string) (*usecase.Subscription[[]*entity.Message], error) {
	args := m.Called(ctx, chatID, readerID)
	sub, _ := args.Get(0).(*usecase.Subscription[[]*entity.Message])
	return sub, args.Error(1)
}
