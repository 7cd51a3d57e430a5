package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
	"github.com/LucasJalles/controle-vendas/pkg/settings"
	"github.com/LucasJalles/controle-vendas/pkg/sheets"
)

// listSales returns the saved list, newest first.
func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sales, err := s.sales.List(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	if sales == nil {
		sales = []sale.Sale{}
	}
	respondJSON(w, http.StatusOK, sales)
}

func (s *Server) deleteSale(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := s.sales.Delete(ctx, id); err != nil {
		fail(w, err)
		return
	}
	zap.S().Infow("sale deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// saleRow is one line of the CSV export.
type saleRow struct {
	ID             string `csv:"id"`
	Timestamp      string `csv:"timestamp"`
	ClientName     string `csv:"clientName"`
	Address        string `csv:"address"`
	Phone          string `csv:"phone"`
	Items          string `csv:"items"`
	Payment        string `csv:"payment"`
	DeliveryPerson string `csv:"deliveryPerson"`
	DeliveryValue  string `csv:"deliveryValue"`
	TotalValue     string `csv:"totalValue"`
	Observations   string `csv:"observations"`
}

func (s *Server) exportSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sales, err := s.sales.List(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	rows := make([]saleRow, 0, len(sales))
	for _, sl := range sales {
		rows = append(rows, saleRow{
			ID:             sl.ID,
			Timestamp:      sl.Timestamp.In(s.loc).Format(sheets.TimestampLayout),
			ClientName:     sl.ClientName,
			Address:        sl.Address,
			Phone:          sl.Phone,
			Items:          sheets.ItemsDescription(sl.Items),
			Payment:        sl.Payment,
			DeliveryPerson: sl.DeliveryPerson,
			DeliveryValue:  sl.DeliveryValue.StringFixed(2),
			TotalValue:     sl.TotalValue.StringFixed(2),
			Observations:   sl.Observations,
		})
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vendas.csv"`)
	if err := gocsv.Marshal(rows, w); err != nil {
		zap.S().Errorw("export sales", "err", err)
	}
}

type settingsPayload struct {
	SheetsURL  string `json:"googleSheetsUrl"`
	Configured bool   `json:"configured"`
}

func (s *Server) getSettings(w http.ResponseWriter, _ *http.Request) {
	url := s.settings.SheetsURL()
	respondJSON(w, http.StatusOK, settingsPayload{SheetsURL: url, Configured: url != ""})
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.settings.SetSheetsURL(payload.SheetsURL); err != nil {
		fail(w, err)
		return
	}
	zap.S().Infow("spreadsheet endpoint updated", "key", settings.SheetsURLKey)
	url := s.settings.SheetsURL()
	respondJSON(w, http.StatusOK, settingsPayload{SheetsURL: url, Configured: url != ""})
}
