package entity

import (
	"time"

	"slawn/pkg/errors"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderStarted   OrderStatus = "started"
	OrderDelivery  OrderStatus = "delivery"
	OrderDone      OrderStatus = "done"
	OrderRejected  OrderStatus = "rejected"
	OrderCancelled OrderStatus = "cancelled"
)

// ProcessingWindow is how long a seller has to ship once an order is started.
const ProcessingWindow = 4 * time.Hour

// next administrative stage for each stage that has one
var adminStages = map[OrderStatus]OrderStatus{
	OrderPaid:     OrderStarted,
	OrderStarted:  OrderDelivery,
	OrderDelivery: OrderDone,
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDone || s == OrderRejected || s == OrderCancelled
}

// CanAdvanceTo reports whether an administrator may move an order from s to next.
// Rejection is reachable from every non-terminal stage.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderRejected {
		return true
	}
	following, ok := adminStages[s]
	return ok && following == next
}

type ShippingAddress struct {
	FullName      string `json:"full_name" firestore:"fullName" validate:"required"`
	Email         string `json:"email" firestore:"email" validate:"required,looseemail"`
	Phone         string `json:"phone" firestore:"phone" validate:"required,phonenumber"`
	StreetAddress string `json:"street_address" firestore:"streetAddress" validate:"required"`
	Apartment     string `json:"apartment,omitempty" firestore:"apartment,omitempty"`
	StateProvince string `json:"state_province" firestore:"stateProvince" validate:"required"`
	City          string `json:"city" firestore:"city" validate:"required"`
	PostalCode    string `json:"postal_code" firestore:"postalCode" validate:"required"`
	Country       string `json:"country,omitempty" firestore:"country,omitempty"`
	CountryCode   string `json:"country_code,omitempty" firestore:"countryCode,omitempty"`
}

type OrderUpdate struct {
	Status    OrderStatus `json:"status" firestore:"status"`
	Message   string      `json:"message" firestore:"message"`
	Actor     string      `json:"actor,omitempty" firestore:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp" firestore:"timestamp"`
}

type Order struct {
	ID              string          `json:"id" firestore:"-"`
	OrderNumber     string          `json:"order_number" firestore:"orderNumber"`
	BuyerID         string          `json:"buyer_id" firestore:"userId"`
	BuyerEmail      string          `json:"buyer_email" firestore:"buyerEmail"`
	ProductID       string          `json:"product_id" firestore:"productId"`
	ProductTitle    string          `json:"product_title" firestore:"productTitle"`
	Amount          float64         `json:"amount" firestore:"amount"`
	Currency        string          `json:"currency" firestore:"currency"`
	ShippingAddress ShippingAddress `json:"shipping_address" firestore:"shippingAddress"`
	Status          OrderStatus     `json:"status" firestore:"status"`

	PaymentReference string `json:"payment_reference,omitempty" firestore:"paymentReference,omitempty"`
	Note             string `json:"note,omitempty" firestore:"note,omitempty"`

	// StageEnteredAt is stamped on every stage change and anchors the processing window.
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty" firestore:"stageEnteredAt,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty" firestore:"paidAt,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`

	CancelledByBuyer         bool `json:"cancelled_by_buyer" firestore:"cancelledByBuyer"`
	DeliveryConfirmedByBuyer bool `json:"delivery_confirmed_by_buyer" firestore:"deliveryConfirmedByBuyer"`

	Updates   []OrderUpdate `json:"updates" firestore:"updates"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time     `json:"updated_at" firestore:"updatedAt"`
}

func (o *Order) record(status OrderStatus, message, actor string, now time.Time) {
	o.Status = status
	o.UpdatedAt = now
	o.Updates = append(o.Updates, OrderUpdate{
		Status:    status,
		Message:   message,
		Actor:     actor,
		Timestamp: now,
	})
}

// MarkPaid moves a pending order to paid. Repeating it with the same reference is a no-op.
func (o *Order) MarkPaid(reference string, now time.Time) error {
	if o.Status != OrderPending {
		if o.PaymentReference == reference {
			return nil
		}
		return errors.InvalidTransition(string(o.Status), string(OrderPaid))
	}

	o.PaymentReference = reference
	o.Note = "Payment successful"
	o.PaidAt = &now
	o.StageEnteredAt = &now
	o.record(OrderPaid, "Payment successful", "", now)
	return nil
}

// Advance applies an administrative stage change.
func (o *Order) Advance(next OrderStatus, actor string, now time.Time) error {
	if !o.Status.CanAdvanceTo(next) {
		return errors.InvalidTransition(string(o.Status), string(next))
	}

	o.StageEnteredAt = &now
	message := "Order moved to " + string(next)
	if next == OrderRejected {
		o.CancelledAt = &now
		message = "Order rejected"
	}
	o.record(next, message, actor, now)
	return nil
}

// Cancel is the buyer's escape valve. No refund is issued.
func (o *Order) Cancel(actor string, now time.Time) error {
	if o.Status.IsTerminal() {
		return errors.InvalidTransition(string(o.Status), string(OrderCancelled))
	}

	o.CancelledByBuyer = true
	o.CancelledAt = &now
	o.StageEnteredAt = &now
	o.record(OrderCancelled, "Cancelled by buyer", actor, now)
	return nil
}

// ConfirmDelivered records the buyer's confirmation of receipt.
func (o *Order) ConfirmDelivered(actor string, now time.Time) error {
	if o.Status != OrderDelivery {
		return errors.InvalidTransition(string(o.Status), string(OrderDone))
	}

	o.DeliveryConfirmedByBuyer = true
	o.DeliveredAt = &now
	o.StageEnteredAt = &now
	o.record(OrderDone, "Delivery confirmed by buyer", actor, now)
	return nil
}

// RemainingProcessingTime returns the time left in the processing window.
// ok is false when the order is not started or the window has already run out.
func (o *Order) RemainingProcessingTime(now time.Time) (remaining time.Duration, ok bool) {
	if o.Status != OrderStarted || o.StageEnteredAt == nil {
		return 0, false
	}

	remaining = ProcessingWindow - now.Sub(*o.StageEnteredAt)
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

func (o *Order) HasProcessingExpired(now time.Time) bool {
	if o.Status != OrderStarted || o.StageEnteredAt == nil {
		return false
	}
	return now.Sub(*o.StageEnteredAt) >= ProcessingWindow
}
