package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

func newListing(t *testing.T, id domainproperty.PropertyID) *domainproperty.Property {
	t.Helper()
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:    id,
		Host:  "host-1",
		Title: "Test Listing",
		Address: domainproperty.Address{
			Line1:   "1 Main St",
			City:    "Berlin",
			Country: "DE",
		},
		Now: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	prop.ClearEvents()
	return prop
}

func TestCommitMakesWritesVisible(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	prop := newListing(t, "prop-1")
	require.NoError(t, unit.Properties().Save(ctx, prop))
	require.NoError(t, unit.Commit(ctx))
	assert.Equal(t, int64(1), prop.Version)

	reader, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	got, err := reader.Properties().ByID(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, prop.ID, got.ID)
	assert.NotSame(t, prop, got, "reads return clones")
}

func TestRollbackDropsStagedWrites(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(ctx, newListing(t, "prop-1")))
	require.NoError(t, unit.Rollback(ctx))

	reader, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	_, err = reader.Properties().ByID(ctx, "prop-1")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestStaleWriteIsRejected(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(ctx, newListing(t, "prop-1")))
	require.NoError(t, unit.Commit(ctx))

	// A copy loaded before someone else's commit carries a stale version.
	stale := newListing(t, "prop-1")
	stale.Version = 0
	unit, err = factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(ctx, stale))
	err = unit.Commit(ctx)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.ErrorIs(t, err, fault.ErrConcurrencyConflict)
}

func TestReadOnlyUnitRejectsWrites(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)
	err = unit.Properties().Save(ctx, newListing(t, "prop-1"))
	assert.ErrorIs(t, err, ErrReadOnlyUnit)
}

func TestFinishedUnitRefusesFurtherUse(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(ctx))

	assert.ErrorIs(t, unit.Commit(ctx), ErrUnitClosed)
	_, err = unit.Properties().ByID(ctx, "prop-1")
	assert.ErrorIs(t, err, ErrUnitClosed)
	assert.NoError(t, unit.Rollback(ctx), "rollback after finish is a no-op")
}

func TestRolledBackMutationsDoNotLeak(t *testing.T) {
	store := NewStore()
	factory := Factory{Store: store}
	ctx := context.Background()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(ctx, newListing(t, "prop-1")))
	require.NoError(t, unit.Commit(ctx))

	unit, err = factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	loaded, err := unit.Properties().ByID(ctx, "prop-1")
	require.NoError(t, err)
	loaded.Title = "Mutated Without Save"
	require.NoError(t, unit.Rollback(ctx))

	reader, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer reader.Rollback(ctx)
	got, err := reader.Properties().ByID(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Listing", got.Title)
}
