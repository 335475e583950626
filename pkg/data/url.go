package data

import (
	"context"
	"net/http"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/net"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

// URL fetches a JSON Document, e.g. a published spreadsheet export.
type URL struct {
	Address string
	client  *http.Client
}

// NewURL creates a URL source. A non-empty token is sent as a bearer token.
func NewURL(ctx context.Context, address, token string) *URL {
	u := &URL{Address: address}
	if token != "" {
		u.client = net.GetOAuthClient(ctx, token)
	}
	return u
}

func (u *URL) fetch(ctx context.Context) (*Document, error) {
	var d Document
	if err := net.GetJSON(ctx, u.client, u.Address, &d); err != nil {
		return nil, errors.Wrapf(err, "error fetching source: %s", u.Address)
	}
	return &d, nil
}

func (u *URL) LoadUseCases(ctx context.Context) ([]score.UseCase, error) {
	d, err := u.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return d.UseCases, nil
}

func (u *URL) LoadPlan(ctx context.Context) (*alloc.Plan, error) {
	d, err := u.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if d.Plan == nil {
		return nil, errors.Errorf("plan missing in %s", u.Address)
	}
	return d.Plan, nil
}
