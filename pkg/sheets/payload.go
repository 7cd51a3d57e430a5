package sheets

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/LucasJalles/controle-vendas/pkg/catalog"
	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TimestampLayout renders dates the way the spreadsheet rows expect (pt-BR).
const TimestampLayout = "02/01/2006, 15:04:05"

// Payload is the row appended to the spreadsheet for one sale.
type Payload struct {
	Timestamp      string  `json:"timestamp"`
	Items          string  `json:"items"`
	ClientName     string  `json:"clientName"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	DeliveryPerson string  `json:"deliveryPerson"`
	DeliveryValue  float64 `json:"deliveryValue"`
	TotalValue     float64 `json:"totalValue"`
	Payment        string  `json:"payment"`
	Observations   string  `json:"observations"`
}

// ItemsDescription renders lines as "2x Gás 35kg (R$ 90.00) + 1x Água 20L (R$ 15.00)".
func ItemsDescription(items []sale.CartLine) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s (R$ %s)", item.Quantity, catalog.ProductLabel(item.ProductID), item.Price.StringFixed(2)))
	}
	return strings.Join(parts, " + ")
}

// NewPayload flattens a sale into a spreadsheet row, formatting the timestamp in loc.
func NewPayload(s sale.Sale, loc *time.Location) Payload {
	if loc == nil {
		loc = time.Local
	}
	return Payload{
		Timestamp:      s.Timestamp.In(loc).Format(TimestampLayout),
		Items:          ItemsDescription(s.Items),
		ClientName:     s.ClientName,
		Address:        s.Address,
		Phone:          s.Phone,
		DeliveryPerson: s.DeliveryPerson,
		DeliveryValue:  s.DeliveryValue.InexactFloat64(),
		TotalValue:     s.TotalValue.InexactFloat64(),
		Payment:        s.Payment,
		Observations:   s.Observations,
	}
}

// Encode returns the JSON body sent to the endpoint.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
