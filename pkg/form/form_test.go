package form

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

func keep(s sale.Sale) (sale.Sale, error) { return s, nil }

func openForm(t *testing.T) *Form {
	f := New()
	f.OpenDialog()
	return f
}

func TestNewFormIsClosedWithDefaults(t *testing.T) {
	f := New()
	assert.False(t, f.Open)
	assert.Empty(t, f.Cart)
	assert.Equal(t, "5.00", f.Customer.DeliveryValue)
}

func TestEditsRequireOpenDialog(t *testing.T) {
	f := New()
	assert.ErrorIs(t, f.AddProduct("gas35"), ErrClosed)
	assert.ErrorIs(t, f.SelectPayment("cash"), ErrClosed)
	_, err := f.Submit(time.Now(), keep)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAddProductUsesSelectedPayment(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.SelectPayment("card"))
	require.NoError(t, f.AddProduct("water"))

	require.Len(t, f.Cart, 1)
	assert.True(t, f.Cart[0].Price.Equal(decimal.NewFromInt(20)))
}

func TestUnknownIDsAreValidationErrors(t *testing.T) {
	f := openForm(t)
	assert.True(t, sale.IsValidation(f.AddProduct("coal")))
	assert.True(t, sale.IsValidation(f.SelectPayment("cheque")))
	assert.True(t, sale.IsValidation(f.SelectDeliveryPerson("person9")))
}

func TestSwitchingPaymentResetsOverrides(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("gas35"))
	require.NoError(t, f.AddProduct("gas35"))
	require.NoError(t, f.SetPrice("gas35", decimal.NewFromInt(80)))
	require.NoError(t, f.SelectPayment("card"))

	assert.True(t, f.Cart[0].Price.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, 2, f.Cart[0].Quantity)
}

func TestSummaryPreview(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("gas35"))
	require.NoError(t, f.SetQuantity("gas35", 2))

	s := f.Summary()
	assert.Equal(t, "180.00", s.Products.StringFixed(2))
	assert.Equal(t, "5.00", s.Delivery.StringFixed(2))
	assert.Equal(t, "185.00", s.Total.StringFixed(2))

	c := f.Customer
	c.DeliveryValue = ""
	require.NoError(t, f.UpdateCustomer(c))
	assert.Equal(t, "180.00", f.Summary().Total.StringFixed(2))
}

func TestSubmitResetsAndCloses(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("gas35"))
	require.NoError(t, f.SetQuantity("gas35", 2))
	require.NoError(t, f.SelectPayment("cash"))
	require.NoError(t, f.SelectDeliveryPerson("person1"))
	require.NoError(t, f.UpdateCustomer(sale.Customer{Name: "João", DeliveryValue: "5.00"}))

	s, err := f.Submit(time.Now(), keep)
	require.NoError(t, err)
	assert.Equal(t, "185.00", s.TotalValue.StringFixed(2))

	assert.False(t, f.Open)
	assert.Empty(t, f.Cart)
	assert.Empty(t, f.PaymentID)
	assert.Empty(t, f.DeliveryPersonID)
	assert.Equal(t, "5.00", f.Customer.DeliveryValue)
	assert.Empty(t, f.Customer.Name)
}

func TestSubmitValidationLeavesFormUntouched(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("water"))
	require.NoError(t, f.SelectPayment("pix"))
	before := f.Snapshot()

	_, err := f.Submit(time.Now(), keep)
	require.Error(t, err)
	assert.True(t, sale.IsValidation(err))
	assert.Equal(t, before, f.Snapshot())
}

func TestSubmitCommitFailureLeavesFormUntouched(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("water"))
	require.NoError(t, f.SelectPayment("pix"))
	require.NoError(t, f.SelectDeliveryPerson("person3"))
	require.NoError(t, f.UpdateCustomer(sale.Customer{Name: "Ana"}))
	boom := errors.New("boom")

	_, err := f.Submit(time.Now(), func(sale.Sale) (sale.Sale, error) { return sale.Sale{}, boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, f.Open)
	assert.Len(t, f.Cart, 1)
}

func TestCancelDiscardsEverything(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("gas75"))
	require.NoError(t, f.SelectDeliveryPerson("person2"))
	f.Cancel()

	assert.Equal(t, New().Snapshot(), f.Snapshot())
}

func TestSnapshotIsDeep(t *testing.T) {
	f := openForm(t)
	require.NoError(t, f.AddProduct("gas75"))
	snap := f.Snapshot()
	snap.Cart[0].Quantity = 7
	assert.Equal(t, 1, f.Cart[0].Quantity)
}
