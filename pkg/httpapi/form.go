package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/LucasJalles/controle-vendas/pkg/form"
	"github.com/LucasJalles/controle-vendas/pkg/sale"
	"github.com/LucasJalles/controle-vendas/pkg/sheets"
)

// Notice messages shown after a save.
const (
	noticeSynced        = "Venda salva e enviada para o Google Sheets!"
	noticeSyncFailed    = "Venda salva localmente, mas houve erro ao enviar para o Google Sheets."
	noticeNotConfigured = "Venda salva localmente. Configure o Google Sheets para sincronizar."
)

// Notice tells the operator how a save ended.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type formResponse struct {
	form.Form
	Summary form.Summary `json:"summary"`
}

type saveResponse struct {
	Sale   sale.Sale    `json:"sale"`
	Notice Notice       `json:"notice"`
	Form   formResponse `json:"form"`
}

func newFormResponse(f form.Form) formResponse {
	return formResponse{Form: f, Summary: f.Summary()}
}

// mutate runs m on the caller's form and writes the resulting state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, m form.Mutation) {
	key, err := s.formKey(w, r)
	if err != nil {
		fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	f, err := s.forms.Apply(ctx, key, m)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newFormResponse(f))
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, nil)
}

func (s *Server) openForm(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(f *form.Form) error {
		f.OpenDialog()
		return nil
	})
}

func (s *Server) cancelForm(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(f *form.Form) error {
		f.Cancel()
		return nil
	})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(f *form.Form) error {
		return f.AddProduct(payload.ProductID)
	})
}

// updateItem changes quantity and/or price. Quantity may arrive as a number or a string.
func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	var payload struct {
		Quantity interface{}      `json:"quantity"`
		Price    *decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	var qty *int
	if payload.Quantity != nil {
		n, err := parseQuantity(payload.Quantity)
		if err != nil {
			respondError(w, "quantity must be a whole number", http.StatusBadRequest)
			return
		}
		qty = &n
	}
	if qty == nil && payload.Price == nil {
		respondError(w, "quantity or price is required", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(f *form.Form) error {
		if payload.Price != nil {
			if err := f.SetPrice(productID, *payload.Price); err != nil {
				return err
			}
		}
		if qty != nil {
			return f.SetQuantity(productID, *qty)
		}
		return nil
	})
}

// parseQuantity accepts a JSON number or a decimal string holding a whole number.
// "010" is ten; 2.7 is rejected.
func parseQuantity(v interface{}) (int, error) {
	raw, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	s.mutate(w, r, func(f *form.Form) error {
		return f.RemoveProduct(productID)
	})
}

func (s *Server) selectPayment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PaymentID string `json:"paymentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(f *form.Form) error {
		return f.SelectPayment(payload.PaymentID)
	})
}

func (s *Server) selectDeliveryPerson(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DeliveryPersonID string `json:"deliveryPersonId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(f *form.Form) error {
		return f.SelectDeliveryPerson(payload.DeliveryPersonID)
	})
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var payload sale.Customer
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, func(f *form.Form) error {
		return f.UpdateCustomer(payload)
	})
}

// saveForm builds the sale, commits it and only then tries the spreadsheet.
// The sync outcome never undoes the commit; it only picks the notice.
func (s *Server) saveForm(w http.ResponseWriter, r *http.Request) {
	key, err := s.formKey(w, r)
	if err != nil {
		fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var stored sale.Sale
	f, err := s.forms.Apply(ctx, key, func(f *form.Form) error {
		var err error
		stored, err = f.Submit(s.now(), func(built sale.Sale) (sale.Sale, error) {
			return s.sales.Record(ctx, built)
		})
		return err
	})
	if err != nil {
		if sale.IsValidation(err) {
			zap.S().Infow("sale rejected", "field", sale.ValidationField(err), "reason", err.Error())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": sale.ValidationMessage, "field": sale.ValidationField(err)})
			return
		}
		fail(w, err)
		return
	}
	zap.S().Infow("sale recorded", "id", stored.ID, "client", stored.ClientName, "total", stored.TotalValue.StringFixed(2))

	respondJSON(w, http.StatusOK, saveResponse{
		Sale:   stored,
		Notice: s.sync(r.Context(), stored),
		Form:   newFormResponse(f),
	})
}

func (s *Server) sync(ctx context.Context, stored sale.Sale) Notice {
	err := s.syncer.Send(ctx, s.settings.SheetsURL(), stored)
	switch {
	case err == nil:
		return Notice{Level: "success", Message: noticeSynced}
	case errors.Is(err, sheets.ErrNotConfigured):
		return Notice{Level: "success", Message: noticeNotConfigured}
	default:
		zap.S().Warnw("spreadsheet sync failed", "id", stored.ID, "err", err)
		return Notice{Level: "error", Message: noticeSyncFailed}
	}
}
