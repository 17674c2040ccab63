package entity

import "time"

// Transaction is the ledger row written once per successful payment. It is never
// updated or deleted, and its ID is the payment reference.
type Transaction struct {
	ID           string    `json:"id" firestore:"-"`
	Reference    string    `json:"reference" firestore:"reference"`
	BuyerID      string    `json:"buyer_id" firestore:"buyerId"`
	BuyerEmail   string    `json:"buyer_email" firestore:"buyerEmail"`
	ProductID    string    `json:"product_id" firestore:"productId"`
	ProductTitle string    `json:"product_title" firestore:"productTitle"`
	Amount       float64   `json:"amount" firestore:"amount"`
	Currency     string    `json:"currency" firestore:"currency"`
	OrderID      string    `json:"order_id,omitempty" firestore:"orderId,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}
