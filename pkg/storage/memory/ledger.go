// Package memory keeps saved sales in process memory. Nothing is written to disk.
package memory

import (
	"context"
	"strconv"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

// Ledger stores sales newest first. It is not safe for concurrent use;
// sale.Service serializes every call through its goroutine.
type Ledger struct {
	sales  []sale.Sale
	lastID int64
}

var _ sale.Repository = (*Ledger)(nil)

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Insert prepends the sale and assigns its id from the creation timestamp in milliseconds.
// Two sales created within the same millisecond get consecutive ids.
func (l *Ledger) Insert(_ context.Context, s sale.Sale) (sale.Sale, error) {
	id := s.Timestamp.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	s.ID = strconv.FormatInt(id, 10)

	l.sales = append([]sale.Sale{s.Clone()}, l.sales...)
	return s.Clone(), nil
}

// List returns copies of all sales, newest first.
func (l *Ledger) List(_ context.Context) ([]sale.Sale, error) {
	out := make([]sale.Sale, len(l.sales))
	for i, s := range l.sales {
		out[i] = s.Clone()
	}
	return out, nil
}

// Get returns a copy of one sale.
func (l *Ledger) Get(_ context.Context, id string) (sale.Sale, error) {
	for _, s := range l.sales {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return sale.Sale{}, sale.ErrNotFound
}

// Delete removes the sale with the given id and keeps the order of the others.
func (l *Ledger) Delete(_ context.Context, id string) error {
	for i := range l.sales {
		if l.sales[i].ID == id {
			l.sales = append(l.sales[:i:i], l.sales[i+1:]...)
			return nil
		}
	}
	return sale.ErrNotFound
}
