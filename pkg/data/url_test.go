package data

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSource(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/private" && r.Header.Get("Authorization") != "Bearer tkn" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ReferenceDocument())
	}))
	t.Cleanup(s.Close)

	ctx := context.Background()

	src := NewURL(ctx, s.URL+"/public", "")
	list, err := src.LoadUseCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, Reference(), list)

	p, err := src.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReferencePlan(), p)

	_, err = NewURL(ctx, s.URL+"/private", "").LoadUseCases(ctx)
	assert.Error(t, err)

	list, err = NewURL(ctx, s.URL+"/private", "tkn").LoadUseCases(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 11)
}
