package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/LucasJalles/controle-vendas/pkg/catalog"
	"github.com/LucasJalles/controle-vendas/pkg/form"
	"github.com/LucasJalles/controle-vendas/pkg/sale"
	"github.com/LucasJalles/controle-vendas/pkg/settings"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// uiFS packs the order screen into the binary.
//
//go:embed public_html/app.gohtml
var uiFS embed.FS

// SettingsStore reads and writes the spreadsheet endpoint.
type SettingsStore interface {
	SheetsURL() string
	SetSheetsURL(raw string) error
}

// Syncer forwards a recorded sale to the spreadsheet.
type Syncer interface {
	Send(ctx context.Context, url string, s sale.Sale) error
}

// Deps lists what the server needs from the rest of the application.
type Deps struct {
	Forms         *form.Service
	Sales         *sale.Service
	Settings      SettingsStore
	Syncer        Syncer
	SessionSecret []byte
	Location      *time.Location
}

// Server wires HTTP endpoints to the form and sales services.
type Server struct {
	forms    *form.Service
	sales    *sale.Service
	settings SettingsStore
	syncer   Syncer
	sessions sessions.Store
	page     *template.Template
	loc      *time.Location
	now      func() time.Time
}

// New parses the page template once and prepares the session store.
func New(d Deps) (*Server, error) {
	if d.Forms == nil || d.Sales == nil || d.Settings == nil || d.Syncer == nil {
		return nil, errors.New("httpapi: forms, sales, settings and syncer are required")
	}
	if len(d.SessionSecret) == 0 {
		return nil, errors.New("httpapi: session secret is required")
	}
	tmpl, err := template.ParseFS(uiFS, "public_html/app.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse page template")
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		forms:    d.Forms,
		sales:    d.Sales,
		settings: d.Settings,
		syncer:   d.Syncer,
		sessions: newSessionStore(d.SessionSecret),
		page:     tmpl,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Handler exposes the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.pageHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", s.catalogHandler).Methods(http.MethodGet)

	api.HandleFunc("/form", s.getForm).Methods(http.MethodGet)
	api.HandleFunc("/form/open", s.openForm).Methods(http.MethodPost)
	api.HandleFunc("/form/cancel", s.cancelForm).Methods(http.MethodPost)
	api.HandleFunc("/form/items", s.addItem).Methods(http.MethodPost)
	api.HandleFunc("/form/items/{productId}", s.updateItem).Methods(http.MethodPut)
	api.HandleFunc("/form/items/{productId}", s.removeItem).Methods(http.MethodDelete)
	api.HandleFunc("/form/payment", s.selectPayment).Methods(http.MethodPut)
	api.HandleFunc("/form/delivery-person", s.selectDeliveryPerson).Methods(http.MethodPut)
	api.HandleFunc("/form/customer", s.updateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/form/save", s.saveForm).Methods(http.MethodPost)

	api.HandleFunc("/sales", s.listSales).Methods(http.MethodGet)
	api.HandleFunc("/sales/export.csv", s.exportSales).Methods(http.MethodGet)
	api.HandleFunc("/sales/{id}", s.deleteSale).Methods(http.MethodDelete)

	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.putSettings).Methods(http.MethodPut)

	return logMiddleware(r)
}

type catalogResponse struct {
	Products        []catalog.Product        `json:"products"`
	PaymentMethods  []catalog.PaymentMethod  `json:"paymentMethods"`
	DeliveryPersons []catalog.DeliveryPerson `json:"deliveryPersons"`
}

func currentCatalog() catalogResponse {
	return catalogResponse{
		Products:        catalog.Products(),
		PaymentMethods:  catalog.PaymentMethods(),
		DeliveryPersons: catalog.DeliveryPersons(),
	}
}

// pageHandler renders the order screen with the catalog bootstrapped as JSON.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := json.Marshal(currentCatalog())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := struct {
		CatalogJSON template.JS
	}{
		CatalogJSON: template.JS(payload),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		zap.S().Errorw("render page", "err", err)
	}
}

func (s *Server) catalogHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, currentCatalog())
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("write response", "err", err)
	}
}

// respondError keeps JSON formatting consistent across endpoints.
func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// fail maps domain errors onto HTTP statuses.
func fail(w http.ResponseWriter, err error) {
	switch {
	case sale.IsValidation(err):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "field": sale.ValidationField(err)})
	case errors.Is(err, form.ErrClosed):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, sale.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, settings.ErrEmptyURL):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		zap.S().Errorw("request failed", "err", err)
		respondError(w, err.Error(), http.StatusInternalServerError)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		zap.S().Infow("request",
			"method", r.Method,
			"url", r.URL.String(),
			"remoteAddr", r.RemoteAddr,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
