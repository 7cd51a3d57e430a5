package sale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LucasJalles/controle-vendas/pkg/catalog"
)

// DefaultDeliveryValue is charged when the delivery field is empty or cannot be parsed.
var DefaultDeliveryValue = decimal.NewFromFloat(5.00)

// PriceFor returns the unit price of a product under a payment method.
// Unknown products cost 0; an unknown or empty payment adds no surcharge.
func PriceFor(productID, paymentID string) decimal.Decimal {
	p, ok := catalog.FindProduct(productID)
	if !ok {
		return decimal.Zero
	}
	return p.BasePrice.Add(catalog.Surcharge(paymentID))
}

// AddOrIncrement bumps the quantity of an existing line and refreshes its price,
// or appends a new line with quantity 1.
func AddOrIncrement(cart []CartLine, productID string, price decimal.Decimal) []CartLine {
	out := make([]CartLine, 0, len(cart)+1)
	found := false
	for _, line := range cart {
		if line.ProductID == productID {
			line.Quantity++
			line.Price = price
			found = true
		}
		out = append(out, line)
	}
	if !found {
		out = append(out, CartLine{ProductID: productID, Quantity: 1, Price: price})
	}
	return out
}

// RemoveLine drops the line of the given product.
func RemoveLine(cart []CartLine, productID string) []CartLine {
	out := make([]CartLine, 0, len(cart))
	for _, line := range cart {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

// SetQuantity updates the quantity in place; zero or less removes the line.
func SetQuantity(cart []CartLine, productID string, qty int) []CartLine {
	if qty <= 0 {
		return RemoveLine(cart, productID)
	}
	out := make([]CartLine, len(cart))
	for i, line := range cart {
		if line.ProductID == productID {
			line.Quantity = qty
		}
		out[i] = line
	}
	return out
}

// SetPrice overwrites the unit price of a line. Any value is accepted, including zero and negatives.
func SetPrice(cart []CartLine, productID string, price decimal.Decimal) []CartLine {
	out := make([]CartLine, len(cart))
	for i, line := range cart {
		if line.ProductID == productID {
			line.Price = price
		}
		out[i] = line
	}
	return out
}

// RecomputeForPayment resets every line to base price plus the surcharge of paymentID,
// discarding manual overrides. Lines of unknown products are left as they are.
func RecomputeForPayment(cart []CartLine, paymentID string) []CartLine {
	surcharge := catalog.Surcharge(paymentID)
	out := make([]CartLine, len(cart))
	for i, line := range cart {
		if p, ok := catalog.FindProduct(line.ProductID); ok {
			line.Price = p.BasePrice.Add(surcharge)
		}
		out[i] = line
	}
	return out
}

// CartTotal sums price times quantity over all lines.
func CartTotal(cart []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ParseDeliveryValue reads the delivery fee typed by the user. A comma is accepted as
// decimal separator; empty or unparsable input falls back to DefaultDeliveryValue.
func ParseDeliveryValue(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return DefaultDeliveryValue
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return DefaultDeliveryValue
	}
	return v
}

// BuildSale validates the form and produces the sale record. The id is left empty;
// the ledger assigns it when the sale is recorded.
func BuildSale(cart []CartLine, paymentID, deliveryPersonID string, customer Customer, now time.Time) (Sale, error) {
	if len(cart) == 0 {
		return Sale{}, NewValidationError("cart", "at least one product is required")
	}
	method, ok := catalog.FindPaymentMethod(paymentID)
	if !ok {
		return Sale{}, NewValidationError("payment", "select a payment method")
	}
	courier, ok := catalog.FindDeliveryPerson(deliveryPersonID)
	if !ok {
		return Sale{}, NewValidationError("deliveryPerson", "select a delivery person")
	}
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		return Sale{}, NewValidationError("clientName", "client name is required")
	}

	items := make([]CartLine, len(cart))
	copy(items, cart)
	delivery := ParseDeliveryValue(customer.DeliveryValue)

	return Sale{
		Items:          items,
		Payment:        method.Label,
		ClientName:     name,
		Address:        strings.TrimSpace(customer.Address),
		Phone:          strings.TrimSpace(customer.Phone),
		DeliveryPerson: courier.Label,
		DeliveryValue:  delivery,
		TotalValue:     CartTotal(items).Add(delivery),
		Observations:   strings.TrimSpace(customer.Notes),
		Timestamp:      now,
	}, nil
}
