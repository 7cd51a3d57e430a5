package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

var brt = time.FixedZone("BRT", -3*60*60)

func sampleSale() sale.Sale {
	return sale.Sale{
		ID: "1792420200000",
		Items: []sale.CartLine{
			{ProductID: "gas35", Quantity: 2, Price: decimal.NewFromInt(90)},
			{ProductID: "water", Quantity: 1, Price: decimal.NewFromInt(15)},
		},
		Payment:        "Dinheiro",
		ClientName:     "Maria",
		Address:        "Rua A, 10",
		Phone:          "11 99999-0000",
		DeliveryPerson: "Entregador 1",
		DeliveryValue:  decimal.NewFromInt(5),
		TotalValue:     decimal.NewFromInt(200),
		Observations:   "portão azul",
		Timestamp:      time.Date(2026, 10, 19, 17, 30, 5, 0, time.UTC),
	}
}

func TestItemsDescription(t *testing.T) {
	got := ItemsDescription(sampleSale().Items)
	assert.Equal(t, "2x Gás 35kg (R$ 90.00) + 1x Água 20L (R$ 15.00)", got)
	assert.Empty(t, ItemsDescription(nil))
}

func TestNewPayload(t *testing.T) {
	p := NewPayload(sampleSale(), brt)

	assert.Equal(t, "19/10/2026, 14:30:05", p.Timestamp)
	assert.Equal(t, "Maria", p.ClientName)
	assert.Equal(t, "Entregador 1", p.DeliveryPerson)
	assert.Equal(t, "Dinheiro", p.Payment)
	assert.Equal(t, 5.0, p.DeliveryValue)
	assert.Equal(t, 200.0, p.TotalValue)
	assert.Equal(t, "portão azul", p.Observations)
}

func TestPayloadKeys(t *testing.T) {
	body, err := NewPayload(sampleSale(), brt).Encode()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, key := range []string{"timestamp", "items", "clientName", "address", "phone", "deliveryPerson", "deliveryValue", "totalValue", "payment", "observations"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 10)
}

func TestSendPostsJSON(t *testing.T) {
	var (
		method      string
		contentType string
		got         Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(WithLocation(brt))
	require.NoError(t, c.Send(context.Background(), srv.URL, sampleSale()))

	assert.Equal(t, http.MethodPost, method)
	assert.Contains(t, contentType, "application/json")
	assert.Equal(t, "Maria", got.ClientName)
	assert.Equal(t, 200.0, got.TotalValue)
}

func TestSendSkipsWithoutURL(t *testing.T) {
	err := NewClient().Send(context.Background(), "", sampleSale())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpaqueModeIgnoresStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient().Send(context.Background(), srv.URL, sampleSale()))
	assert.Error(t, NewClient(WithOpaqueResponses(false)).Send(context.Background(), srv.URL, sampleSale()))
}

func TestSendReportsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	assert.Error(t, NewClient().Send(context.Background(), url, sampleSale()))
}
