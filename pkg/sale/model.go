package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart with its quantity and unit price.
type CartLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal is the price of the line for all units.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Customer collects the free-text fields typed into the order form.
type Customer struct {
	Name          string `json:"clientName"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	DeliveryValue string `json:"deliveryValue"`
	Notes         string `json:"observations"`
}

// Sale is a finalized order. It is never modified after it is recorded.
type Sale struct {
	ID             string          `json:"id"`
	Items          []CartLine      `json:"items"`
	Payment        string          `json:"payment"`
	ClientName     string          `json:"clientName"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	DeliveryPerson string          `json:"deliveryPerson"`
	DeliveryValue  decimal.Decimal `json:"deliveryValue"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Observations   string          `json:"observations"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Clone returns a copy that shares no slices with s.
func (s Sale) Clone() Sale {
	out := s
	out.Items = make([]CartLine, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
