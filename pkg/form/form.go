// Package form models the order-entry dialog: the cart being built, the
// selected payment and courier, and the customer fields.
package form

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/LucasJalles/controle-vendas/pkg/catalog"
	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

// ErrClosed is returned when an edit arrives while the dialog is closed.
var ErrClosed = errors.New("order form is closed")

// DefaultDeliveryValue is the text prefilled in the delivery field.
const DefaultDeliveryValue = "5.00"

// Form is the state of one order-entry dialog.
type Form struct {
	Open             bool            `json:"open"`
	Cart             []sale.CartLine `json:"cart"`
	PaymentID        string          `json:"paymentId"`
	DeliveryPersonID string          `json:"deliveryPersonId"`
	Customer         sale.Customer   `json:"customer"`
}

// Summary is the running total shown under the cart.
type Summary struct {
	Products decimal.Decimal `json:"products"`
	Delivery decimal.Decimal `json:"delivery"`
	Total    decimal.Decimal `json:"total"`
}

// New returns a closed, empty form.
func New() *Form {
	f := &Form{}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.Open = false
	f.Cart = nil
	f.PaymentID = ""
	f.DeliveryPersonID = ""
	f.Customer = sale.Customer{DeliveryValue: DefaultDeliveryValue}
}

// pristine reports whether f is closed and holds nothing a new form would not.
func (f *Form) pristine() bool {
	return !f.Open &&
		len(f.Cart) == 0 &&
		f.PaymentID == "" &&
		f.DeliveryPersonID == "" &&
		f.Customer == sale.Customer{DeliveryValue: DefaultDeliveryValue}
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (f *Form) Snapshot() Form {
	out := *f
	out.Cart = make([]sale.CartLine, len(f.Cart))
	copy(out.Cart, f.Cart)
	return out
}

// OpenDialog opens the dialog. Opening an already open dialog keeps its contents.
func (f *Form) OpenDialog() {
	f.Open = true
}

// Cancel closes the dialog and discards everything typed into it.
func (f *Form) Cancel() {
	f.reset()
}

func (f *Form) ensureOpen() error {
	if !f.Open {
		return ErrClosed
	}
	return nil
}

// AddProduct adds one unit of a catalog product at the price of the selected payment.
func (f *Form) AddProduct(productID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	if _, ok := catalog.FindProduct(productID); !ok {
		return sale.NewValidationError("productId", "unknown product "+productID)
	}
	f.Cart = sale.AddOrIncrement(f.Cart, productID, sale.PriceFor(productID, f.PaymentID))
	return nil
}

// RemoveProduct drops the product's line from the cart.
func (f *Form) RemoveProduct(productID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	f.Cart = sale.RemoveLine(f.Cart, productID)
	return nil
}

// SetQuantity changes a line's quantity; zero or less removes it.
func (f *Form) SetQuantity(productID string, qty int) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	f.Cart = sale.SetQuantity(f.Cart, productID, qty)
	return nil
}

// SetPrice overrides a line's unit price until the payment method changes.
func (f *Form) SetPrice(productID string, price decimal.Decimal) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	f.Cart = sale.SetPrice(f.Cart, productID, price)
	return nil
}

// SelectPayment picks the payment method and reprices every line.
func (f *Form) SelectPayment(paymentID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	if _, ok := catalog.FindPaymentMethod(paymentID); !ok {
		return sale.NewValidationError("paymentId", "unknown payment method "+paymentID)
	}
	f.PaymentID = paymentID
	f.Cart = sale.RecomputeForPayment(f.Cart, paymentID)
	return nil
}

// SelectDeliveryPerson picks the courier.
func (f *Form) SelectDeliveryPerson(id string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	if _, ok := catalog.FindDeliveryPerson(id); !ok {
		return sale.NewValidationError("deliveryPersonId", "unknown delivery person "+id)
	}
	f.DeliveryPersonID = id
	return nil
}

// UpdateCustomer replaces the free-text fields.
func (f *Form) UpdateCustomer(c sale.Customer) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	f.Customer = c
	return nil
}

// Summary previews the totals. An empty delivery field counts as zero here,
// while the saved sale falls back to the default fee.
func (f *Form) Summary() Summary {
	products := sale.CartTotal(f.Cart)
	delivery := decimal.Zero
	if f.Customer.DeliveryValue != "" {
		delivery = sale.ParseDeliveryValue(f.Customer.DeliveryValue)
	}
	return Summary{
		Products: products,
		Delivery: delivery,
		Total:    products.Add(delivery),
	}
}

// CommitFunc stores a built sale and returns the stored copy.
type CommitFunc func(sale.Sale) (sale.Sale, error)

// Submit builds the sale and hands it to commit. The dialog is reset and closed
// only after commit succeeds; on any error nothing changes.
func (f *Form) Submit(now time.Time, commit CommitFunc) (sale.Sale, error) {
	if err := f.ensureOpen(); err != nil {
		return sale.Sale{}, err
	}
	built, err := sale.BuildSale(f.Cart, f.PaymentID, f.DeliveryPersonID, f.Customer, now)
	if err != nil {
		return sale.Sale{}, err
	}
	stored, err := commit(built)
	if err != nil {
		return sale.Sale{}, errors.Wrap(err, "commit sale")
	}
	f.reset()
	return stored, nil
}
