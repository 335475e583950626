package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ucdash"),
		postgres.WithUsername("ucdash"),
		postgres.WithPassword("ucdash"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	src, err := Open(ctx, dsn, Options{Validate: true})
	require.NoError(t, err)
	t.Cleanup(func() { Close(src) })

	list, err := src.LoadUseCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, Reference(), list)

	p, err := src.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReferencePlan(), p)

	// second open must not reseed
	require.NoError(t, Init(dsn))
	db, err := GetDB(dsn)
	require.NoError(t, err)
	defer db.Close()
	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(Reference())), state["use_case"])
}
