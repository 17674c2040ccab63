package entity

import (
	"fmt"
	"time"
)

// DeliveryType tells how a purchased item reaches the buyer.
type DeliveryType string

const (
	DeliveryDownload DeliveryType = "download"
	DeliveryPhysical DeliveryType = "delivery"
)

func ParseDeliveryType(s string) (DeliveryType, error) {
	switch DeliveryType(s) {
	case DeliveryDownload:
		return DeliveryDownload, nil
	case DeliveryPhysical:
		return DeliveryPhysical, nil
	}
	return "", fmt.Errorf("unknown delivery type %q", s)
}

// PurchaseRoute is where a buyer goes after choosing an item.
type PurchaseRoute string

const (
	RouteDirectCheckout  PurchaseRoute = "directCheckout"
	RouteCollectShipping PurchaseRoute = "collectShipping"
)

// PaymentRoute is where a buyer goes after a confirmed payment.
type PaymentRoute string

const (
	RouteDownload      PaymentRoute = "downloadRoute"
	RouteOrderTracking PaymentRoute = "orderTrackingRoute"
)

type Item struct {
	ID          string       `json:"id" firestore:"-"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Price       float64      `json:"price" firestore:"price"`
	Category    string       `json:"category" firestore:"category"`
	FileType    string       `json:"file_type" firestore:"fileType"`
	FileName    string       `json:"file_name" firestore:"fileName"`
	FileURL     string       `json:"file_url" firestore:"fileURL"`
	SellerID    string       `json:"seller_id" firestore:"userId"`
	SellerEmail string       `json:"seller_email,omitempty" firestore:"userEmail,omitempty"`
	Delivery    DeliveryType `json:"delivery_type" firestore:"deliveryType"`
	Buys        int64        `json:"buys" firestore:"buys"`
	Rating      float64      `json:"rating,omitempty" firestore:"rating,omitempty"`
	CreatedAt   time.Time    `json:"created_at" firestore:"createdAt"`
}

// IsDownload reports whether the item is fulfilled digitally. Anything that is
// not a download needs a shipping order.
func (i *Item) IsDownload() bool {
	return i.Delivery == DeliveryDownload
}

// ClassifyPurchase decides the checkout path from the delivery type alone.
func ClassifyPurchase(item *Item) PurchaseRoute {
	switch item.Delivery {
	case DeliveryDownload:
		return RouteDirectCheckout
	case DeliveryPhysical:
		return RouteCollectShipping
	}
	return RouteCollectShipping
}

// PostPaymentRoute picks the screen shown once a payment is confirmed.
func PostPaymentRoute(item *Item) PaymentRoute {
	if item.IsDownload() {
		return RouteDownload
	}
	return RouteOrderTracking
}
