package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/internal/domain/service"
	"slawn/internal/infrastructure/metrics"
	"slawn/pkg/errors"
	"slawn/pkg/logger"
	"slawn/pkg/validation"
)

type OrderUseCase struct {
	orderRepo       repository.OrderRepository
	itemRepo        repository.ItemRepository
	transactionRepo repository.TransactionRepository
	payments        service.PaymentGatewayService
	metrics         *metrics.AppMetrics
	currency        string
	now             func() time.Time
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	transactionRepo repository.TransactionRepository,
	payments service.PaymentGatewayService,
	appMetrics *metrics.AppMetrics,
	currency string,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:       orderRepo,
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		payments:        payments,
		metrics:         appMetrics,
		currency:        currency,
		now:             time.Now,
	}
}

// OrderView adds the processing window state to an order.
type OrderView struct {
	*entity.Order
	ProcessingExpired          bool   `json:"processing_expired"`
	RemainingProcessingSeconds *int64 `json:"remaining_processing_seconds,omitempty"`
}

type CheckoutSession struct {
	service.CheckoutParams
	ItemID  string `json:"item_id"`
	OrderID string `json:"order_id,omitempty"`
}

type PaymentConfirmation struct {
	Reference string
	ItemID    string
	OrderID   string
}

type CheckoutOutcome struct {
	Status    service.CheckoutStatus `json:"status"`
	Reference string                 `json:"reference,omitempty"`
	Route     entity.PaymentRoute    `json:"route,omitempty"`
}

// Purchase is a ledger row joined with its item. DownloadURL is only set for
// download items.
type Purchase struct {
	*entity.Transaction
	Route       entity.PaymentRoute `json:"route"`
	DownloadURL string              `json:"download_url,omitempty"`
}

func (uc *OrderUseCase) view(order *entity.Order) *OrderView {
	now := uc.now()
	v := &OrderView{
		Order:             order,
		ProcessingExpired: order.HasProcessingExpired(now),
	}
	if remaining, ok := order.RemainingProcessingTime(now); ok {
		secs := int64(remaining / time.Second)
		v.RemainingProcessingSeconds = &secs
	}
	return v
}

// ClassifyPurchase loads the item and decides its checkout path.
func (uc *OrderUseCase) ClassifyPurchase(ctx context.Context, itemID string) (*entity.Item, entity.PurchaseRoute, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	return item, entity.ClassifyPurchase(item), nil
}

// SubmitShippingOrder validates the address form and creates a pending order.
// Nothing is written unless every field passes.
func (uc *OrderUseCase) SubmitShippingOrder(ctx context.Context, buyer *entity.Principal, itemID string, address entity.ShippingAddress) (*entity.Order, error) {
	address = trimAddress(address)
	if err := validation.Struct(address); err != nil {
		return nil, err
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if entity.ClassifyPurchase(item) != entity.RouteCollectShipping {
		return nil, errors.BadRequest("Download items do not need a shipping order", nil)
	}

	now := uc.now()
	buyerEmail := buyer.Email
	if buyerEmail == "" {
		buyerEmail = address.Email
	}

	order := &entity.Order{
		OrderNumber:     fmt.Sprintf("ORD-%d", now.UnixMilli()),
		BuyerID:         buyer.ID,
		BuyerEmail:      buyerEmail,
		ProductID:       item.ID,
		ProductTitle:    item.Title,
		Amount:          item.Price,
		Currency:        uc.currency,
		ShippingAddress: address,
		Status:          entity.OrderPending,
		Updates: []entity.OrderUpdate{{
			Status:    entity.OrderPending,
			Message:   "Order placed, awaiting payment",
			Actor:     buyer.ID,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.metrics.Inc(ctx, uc.metrics.OrdersCreated)
	logger.L().Info().
		Str("orderId", order.ID).
		Str("orderNumber", order.OrderNumber).
		Str("buyerId", buyer.ID).
		Msg("shipping order created")

	return order, nil
}

// StartCheckout prepares the payment window parameters for an item.
func (uc *OrderUseCase) StartCheckout(ctx context.Context, buyer *entity.Principal, itemID, orderID string) (*CheckoutSession, error) {
	if buyer.Email == "" {
		return nil, errors.BadRequest("An email address is required to pay", nil)
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	order, err := uc.checkOrderForPayment(ctx, buyer, item, orderID)
	if err != nil {
		return nil, err
	}
	if order != nil && order.Status != entity.OrderPending {
		return nil, errors.InvalidTransition(string(order.Status), string(entity.OrderPaid))
	}

	return &CheckoutSession{
		CheckoutParams: uc.payments.NewCheckout(buyer.Email, item.Price),
		ItemID:         item.ID,
		OrderID:        orderID,
	}, nil
}

// checkOrderForPayment enforces that delivery items are paid against the
// buyer's own pending order. It only reads.
func (uc *OrderUseCase) checkOrderForPayment(ctx context.Context, buyer *entity.Principal, item *entity.Item, orderID string) (*entity.Order, error) {
	if orderID == "" {
		if entity.ClassifyPurchase(item) == entity.RouteCollectShipping {
			return nil, errors.BadRequest("Shipping details are required before paying for this item", nil)
		}
		return nil, nil
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyer.ID {
		return nil, errors.Forbidden("Order belongs to another buyer", nil)
	}
	if order.ProductID != item.ID {
		return nil, errors.BadRequest("Order is for a different item", nil)
	}
	return order, nil
}

// ConfirmPayment records a successful payment. The ledger row is written
// first; if that fails nothing else is touched. Counter and order updates
// that fail afterwards are logged and never surfaced. Once a reference is in
// hand, infrastructure failures are reported as an unrecorded payment so the
// buyer is told to retry rather than that the payment failed.
func (uc *OrderUseCase) ConfirmPayment(ctx context.Context, buyer *entity.Principal, in PaymentConfirmation) (entity.PaymentRoute, error) {
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return "", errors.PaymentProtocol("Payment reference is missing", nil)
	}

	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return "", uc.unrecorded(ctx, "read_item", reference, err)
	}
	if _, err := uc.checkOrderForPayment(ctx, buyer, item, in.OrderID); err != nil {
		return "", uc.unrecorded(ctx, "read_order", reference, err)
	}

	if err := uc.payments.Verify(ctx, reference, service.SmallestUnit(item.Price), uc.currency); err != nil {
		return "", uc.unrecorded(ctx, "verify", reference, err)
	}

	route := entity.PostPaymentRoute(item)
	now := uc.now()

	created, err := uc.transactionRepo.Record(ctx, &entity.Transaction{
		Reference:    reference,
		BuyerID:      buyer.ID,
		BuyerEmail:   buyer.Email,
		ProductID:    item.ID,
		ProductTitle: item.Title,
		Amount:       item.Price,
		Currency:     uc.currency,
		OrderID:      in.OrderID,
		CreatedAt:    now,
	})
	if err != nil {
		uc.metrics.Inc(ctx, uc.metrics.LedgerWriteFailures)
		logger.L().Error().Err(err).
			Str("reference", reference).
			Str("itemId", item.ID).
			Str("buyerId", buyer.ID).
			Msg("payment succeeded but ledger write failed")
		return "", errors.LedgerWriteFailure(reference, err)
	}

	if !created {
		existing, err := uc.transactionRepo.GetByReference(ctx, reference)
		if err != nil {
			return "", uc.unrecorded(ctx, "read_ledger", reference, err)
		}
		if existing.ProductID != item.ID || existing.BuyerID != buyer.ID {
			logger.L().Warn().
				Str("reference", reference).
				Str("itemId", item.ID).
				Str("buyerId", buyer.ID).
				Str("recordedItemId", existing.ProductID).
				Str("recordedBuyerId", existing.BuyerID).
				Msg("payment reference reused for another purchase")
			return "", errors.PaymentProtocol("Payment reference already belongs to another purchase", nil)
		}
		logger.L().Info().Str("reference", reference).Msg("payment already recorded")
		return route, nil
	}

	if err := uc.itemRepo.IncrementBuys(ctx, item.ID, 1); err != nil {
		uc.secondaryFailure(ctx, "increment_buys", reference, err)
	}

	if in.OrderID != "" {
		_, err := uc.orderRepo.Mutate(ctx, in.OrderID, func(order *entity.Order) error {
			return order.MarkPaid(reference, now)
		})
		if err != nil {
			uc.secondaryFailure(ctx, "mark_order_paid", reference, err)
		}
	}

	uc.metrics.Inc(ctx, uc.metrics.PaymentsConfirmed, attribute.String("route", string(route)))
	logger.L().Info().
		Str("reference", reference).
		Str("itemId", item.ID).
		Str("orderId", in.OrderID).
		Str("route", string(route)).
		Msg("payment confirmed")

	return route, nil
}

// unrecorded passes caller mistakes through and turns everything else into
// a retryable ledger failure.
func (uc *OrderUseCase) unrecorded(ctx context.Context, step, reference string, err error) error {
	if appErr, ok := errors.As(err); ok {
		switch appErr.Code {
		case errors.CodeBadRequest, errors.CodeForbidden, errors.CodeNotFound,
			errors.CodeValidation, errors.CodePaymentProtocol, errors.CodeLedgerWrite:
			return err
		}
	}
	uc.metrics.Inc(ctx, uc.metrics.LedgerWriteFailures, attribute.String("step", step))
	logger.L().Error().Err(err).
		Str("step", step).
		Str("reference", reference).
		Msg("payment succeeded but could not be confirmed")
	return errors.LedgerWriteFailure(reference, err)
}

func (uc *OrderUseCase) secondaryFailure(ctx context.Context, step, reference string, err error) {
	uc.metrics.Inc(ctx, uc.metrics.SecondaryUpdateFailures, attribute.String("step", step))
	logger.L().Error().Err(err).
		Str("step", step).
		Str("reference", reference).
		Msg("secondary update failed after recorded payment")
}

// HandleCheckoutEvent interprets the payment window's terminal message.
func (uc *OrderUseCase) HandleCheckoutEvent(ctx context.Context, buyer *entity.Principal, raw []byte, itemID, orderID string) (*CheckoutOutcome, error) {
	event, err := service.ParseCheckoutEvent(raw)
	if err != nil {
		logger.L().Warn().Err(err).Str("buyerId", buyer.ID).Msg("unexpected payment window message")
		return nil, err
	}

	if event.Status == service.CheckoutCancelled {
		uc.metrics.Inc(ctx, uc.metrics.PaymentsCancelled)
		return &CheckoutOutcome{Status: service.CheckoutCancelled}, nil
	}

	route, err := uc.ConfirmPayment(ctx, buyer, PaymentConfirmation{
		Reference: event.Reference,
		ItemID:    itemID,
		OrderID:   orderID,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutOutcome{
		Status:    service.CheckoutSuccess,
		Reference: event.Reference,
		Route:     route,
	}, nil
}

// AdvanceOrderStage is the administrator's stage control.
func (uc *OrderUseCase) AdvanceOrderStage(ctx context.Context, actor *entity.Principal, orderID string, next entity.OrderStatus) (*OrderView, error) {
	if !actor.Admin {
		return nil, errors.Forbidden("Only administrators can change order stages", nil)
	}

	now := uc.now()
	order, err := uc.orderRepo.Mutate(ctx, orderID, func(order *entity.Order) error {
		return order.Advance(next, actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.Inc(ctx, uc.metrics.OrderStageChanges, attribute.String("status", string(next)))
	return uc.view(order), nil
}

// CancelOrder lets the buyer abandon a non-terminal order. No refund is issued.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, actor *entity.Principal, orderID string) (*OrderView, error) {
	now := uc.now()
	order, err := uc.orderRepo.Mutate(ctx, orderID, func(order *entity.Order) error {
		if order.BuyerID != actor.ID {
			return errors.Forbidden("Only the buyer can cancel this order", nil)
		}
		return order.Cancel(actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.Inc(ctx, uc.metrics.OrderStageChanges, attribute.String("status", string(entity.OrderCancelled)))
	return uc.view(order), nil
}

// MarkDelivered is the buyer confirming receipt.
func (uc *OrderUseCase) MarkDelivered(ctx context.Context, actor *entity.Principal, orderID string) (*OrderView, error) {
	now := uc.now()
	order, err := uc.orderRepo.Mutate(ctx, orderID, func(order *entity.Order) error {
		if order.BuyerID != actor.ID {
			return errors.Forbidden("Only the buyer can confirm delivery", nil)
		}
		return order.ConfirmDelivered(actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.Inc(ctx, uc.metrics.OrderStageChanges, attribute.String("status", string(entity.OrderDone)))
	return uc.view(order), nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, actor *entity.Principal, orderID string) (*OrderView, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID && !actor.Admin {
		return nil, errors.NotFound("Order", nil)
	}
	return uc.view(order), nil
}

func (uc *OrderUseCase) ListBuyerOrders(ctx context.Context, actor *entity.Principal, limit int) ([]*OrderView, error) {
	orders, err := uc.orderRepo.ListByBuyer(ctx, actor.ID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, uc.view(o))
	}
	return views, nil
}

// ListPurchases returns the buyer's ledger with download links for digital items.
func (uc *OrderUseCase) ListPurchases(ctx context.Context, actor *entity.Principal, limit int) ([]*Purchase, error) {
	txns, err := uc.transactionRepo.ListByBuyer(ctx, actor.ID, limit)
	if err != nil {
		return nil, err
	}

	items := make(map[string]*entity.Item)
	purchases := make([]*Purchase, 0, len(txns))
	for _, txn := range txns {
		item, seen := items[txn.ProductID]
		if !seen {
			item, err = uc.itemRepo.GetByID(ctx, txn.ProductID)
			if err != nil && !errors.Is(err, errors.CodeNotFound) {
				return nil, err
			}
			items[txn.ProductID] = item
		}

		p := &Purchase{Transaction: txn, Route: entity.RouteOrderTracking}
		if item != nil {
			p.Route = entity.PostPaymentRoute(item)
			if item.IsDownload() {
				p.DownloadURL = item.FileURL
			}
		}
		purchases = append(purchases, p)
	}

	return purchases, nil
}

// ListTransactions is the administrator's ledger view, newest first.
func (uc *OrderUseCase) ListTransactions(ctx context.Context, actor *entity.Principal, limit int) ([]*entity.Transaction, error) {
	if !actor.Admin {
		return nil, errors.Forbidden("Only administrators can view the ledger", nil)
	}
	return uc.transactionRepo.List(ctx, limit)
}

func trimAddress(a entity.ShippingAddress) entity.ShippingAddress {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.StreetAddress = strings.TrimSpace(a.StreetAddress)
	a.Apartment = strings.TrimSpace(a.Apartment)
	a.StateProvince = strings.TrimSpace(a.StateProvince)
	a.City = strings.TrimSpace(a.City)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	a.CountryCode = strings.TrimSpace(a.CountryCode)
	return a
}
