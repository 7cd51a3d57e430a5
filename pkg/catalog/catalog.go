// Package catalog holds the fixed offerings shown on the order-entry screen.
package catalog

import "github.com/shopspring/decimal"

// Product is a sellable item with its cash price per unit.
type Product struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Icon      string          `json:"icon"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

// PaymentMethod adds its surcharge to every unit of the cart when selected.
type PaymentMethod struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Icon      string          `json:"icon"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// DeliveryPerson is a courier that can be assigned to a sale.
type DeliveryPerson struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var products = []Product{
	{ID: "gas35", Label: "Gás 35kg", Icon: "🔥", BasePrice: decimal.NewFromInt(90)},
	{ID: "gas75", Label: "Gás 75kg", Icon: "🔥", BasePrice: decimal.NewFromInt(140)},
	{ID: "water", Label: "Água 20L", Icon: "💧", BasePrice: decimal.NewFromInt(15)},
}

var paymentMethods = []PaymentMethod{
	{ID: "cash", Label: "Dinheiro", Icon: "💵", Surcharge: decimal.Zero},
	{ID: "pix", Label: "Pix", Icon: "📱", Surcharge: decimal.Zero},
	{ID: "card", Label: "Cartão", Icon: "💳", Surcharge: decimal.NewFromInt(5)},
}

var deliveryPersons = []DeliveryPerson{
	{ID: "person1", Label: "Entregador 1"},
	{ID: "person2", Label: "Entregador 2"},
	{ID: "person3", Label: "Entregador 3"},
}

// Products returns a copy of the product list in display order.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// PaymentMethods returns a copy of the payment methods in display order.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// DeliveryPersons returns a copy of the couriers in display order.
func DeliveryPersons() []DeliveryPerson {
	out := make([]DeliveryPerson, len(deliveryPersons))
	copy(out, deliveryPersons)
	return out
}

// FindProduct looks a product up by id.
func FindProduct(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FindPaymentMethod looks a payment method up by id.
func FindPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// FindDeliveryPerson looks a courier up by id.
func FindDeliveryPerson(id string) (DeliveryPerson, bool) {
	for _, d := range deliveryPersons {
		if d.ID == id {
			return d, true
		}
	}
	return DeliveryPerson{}, false
}

// Surcharge returns the per-unit fee of a payment method; unknown or empty ids cost nothing.
func Surcharge(paymentID string) decimal.Decimal {
	if m, ok := FindPaymentMethod(paymentID); ok {
		return m.Surcharge
	}
	return decimal.Zero
}

// ProductLabel returns the display label or an empty string for unknown ids.
func ProductLabel(id string) string {
	p, _ := FindProduct(id)
	return p.Label
}

// ProductIcon returns the display icon or an empty string for unknown ids.
func ProductIcon(id string) string {
	p, _ := FindProduct(id)
	return p.Icon
}
