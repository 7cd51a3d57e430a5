// Package sheets forwards saved sales to a spreadsheet web-app endpoint.
package sheets

import (
	"context"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

// ErrNotConfigured is returned by Send when no endpoint URL is set.
var ErrNotConfigured = errors.New("spreadsheet endpoint is not configured")

// Client posts one JSON row per sale. It makes exactly one attempt and never retries.
type Client struct {
	httpClient *http.Client
	loc        *time.Location
	opaque     bool
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithLocation sets the zone used to format row timestamps.
func WithLocation(loc *time.Location) Option {
	return func(cl *Client) { cl.loc = loc }
}

// WithOpaqueResponses controls how HTTP statuses are judged. In opaque mode any
// response that arrives counts as delivered and only transport failures are errors.
// Otherwise a non-2xx status is reported as a failure.
func WithOpaqueResponses(opaque bool) Option {
	return func(cl *Client) { cl.opaque = opaque }
}

// NewClient builds a client in opaque mode using the local time zone.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		loc:        time.Local,
		opaque:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts the sale to url. The request context is honoured; no client timeout is set.
func (c *Client) Send(ctx context.Context, url string, s sale.Sale) error {
	if url == "" {
		return ErrNotConfigured
	}
	body, err := NewPayload(s, c.loc).Encode()
	if err != nil {
		return errors.Wrap(err, "encode sheets payload")
	}

	code := 0
	err = gout.New(c.httpClient).
		POST(url).
		WithContext(ctx).
		SetJSON(body).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrapf(err, "post sale %s to spreadsheet", s.ID)
	}

	zap.S().Debugw("spreadsheet responded", "sale", s.ID, "status", code)
	if !c.opaque && (code < 200 || code > 299) {
		return errors.Errorf("spreadsheet rejected sale %s: %d %s", s.ID, code, http.StatusText(code))
	}
	return nil
}
