package middleware

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/app/commands"
	"staynest/internal/app/uow"
	domainbooking "staynest/internal/domain/booking"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

type stubCommand struct {
	key string
}

func (c stubCommand) Key() string { return "stub.create" }

func (c stubCommand) IdempotencyKey() string { return c.key }

func (c stubCommand) ResultPrototype() any { return &stubResult{} }

type stubResult struct {
	Value string `json:"value"`
}

// stubUnit satisfies the unit of work contract for handlers that never touch
// repositories; conflictsLeft counts how many commits still lose the race.
type stubUnit struct {
	factory *stubFactory
}

func (u *stubUnit) Properties() domainproperty.Repository { return nil }

func (u *stubUnit) Bookings() domainbooking.Repository { return nil }

func (u *stubUnit) Commit(ctx context.Context) error {
	u.factory.commits++
	if u.factory.conflictsLeft > 0 {
		u.factory.conflictsLeft--
		return fmt.Errorf("storage: %w", fault.ErrConcurrencyConflict)
	}
	return nil
}

func (u *stubUnit) Rollback(ctx context.Context) error {
	u.factory.rollbacks++
	return nil
}

type stubFactory struct {
	conflictsLeft int
	begins        int
	commits       int
	rollbacks     int
}

func (f *stubFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	f.begins++
	return &stubUnit{factory: f}, nil
}

type mapIdempotencyStore struct {
	records map[string]IdempotencyRecord
}

func newMapStore() *mapIdempotencyStore {
	return &mapIdempotencyStore{records: make(map[string]IdempotencyRecord)}
}

func (s *mapIdempotencyStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *mapIdempotencyStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.records[rec.Key] = rec
	return nil
}

// pipeline mirrors the production chain: validation, then idempotency, then
// the transaction boundary.
func pipeline(factory *stubFactory, store IdempotencyStore, handle func(ctx context.Context, cmd stubCommand) (*stubResult, error)) commands.Bus {
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, stubCommand{}.Key(), commands.HandlerFunc[stubCommand, *stubResult](handle))
	return ChainCommands(
		bus,
		Validation(SelfValidator{}),
		Idempotency(store, nil),
		Transaction(factory, nil),
	)
}

func TestTransactionRetriesLostCommitOnce(t *testing.T) {
	factory := &stubFactory{conflictsLeft: 1}
	attempts := 0
	chain := pipeline(factory, newMapStore(), func(ctx context.Context, cmd stubCommand) (*stubResult, error) {
		attempts++
		_, ok := uow.FromContext(ctx)
		require.True(t, ok, "handler runs inside the managed unit")
		return &stubResult{Value: "done"}, nil
	})

	res, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.NoError(t, err)
	assert.Equal(t, "done", res.Value)
	assert.Equal(t, 2, attempts, "second attempt runs in a fresh unit")
	assert.Equal(t, 2, factory.begins)
	assert.Equal(t, 2, factory.commits)
	assert.Equal(t, 1, factory.rollbacks, "the lost unit is rolled back")
}

func TestTransactionSurfacesSecondConflict(t *testing.T) {
	factory := &stubFactory{conflictsLeft: 2}
	attempts := 0
	chain := pipeline(factory, newMapStore(), func(ctx context.Context, cmd stubCommand) (*stubResult, error) {
		attempts++
		return &stubResult{}, nil
	})

	_, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	assert.ErrorIs(t, err, fault.ErrConcurrencyConflict)
	assert.Equal(t, 2, attempts, "exactly one retry")
}

func TestConflictIsNeverCached(t *testing.T) {
	factory := &stubFactory{conflictsLeft: 2}
	store := newMapStore()
	attempts := 0
	chain := pipeline(factory, store, func(ctx context.Context, cmd stubCommand) (*stubResult, error) {
		attempts++
		return &stubResult{Value: "done"}, nil
	})

	_, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.ErrorIs(t, err, fault.ErrConcurrencyConflict)
	assert.Empty(t, store.records, "transient conflicts leave no record")

	// The client follows the guidance and retries with the same key.
	res, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.NoError(t, err)
	assert.Equal(t, "done", res.Value)
	assert.Equal(t, 3, attempts, "retry re-executes instead of replaying the failure")
}

func TestCachedFailureKeepsFaultClass(t *testing.T) {
	factory := &stubFactory{}
	store := newMapStore()
	attempts := 0
	chain := pipeline(factory, store, func(ctx context.Context, cmd stubCommand) (*stubResult, error) {
		attempts++
		return nil, fault.Invalid("check-in date is in the past", nil)
	})

	_, firstErr := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.ErrorIs(t, firstErr, fault.ErrValidation)

	_, replayed := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	assert.ErrorIs(t, replayed, fault.ErrValidation, "replay keeps the taxonomy")
	assert.Equal(t, firstErr.Error(), replayed.Error())
	assert.Equal(t, 1, attempts, "failure replays from the record")
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	factory := &stubFactory{}
	store := newMapStore()
	attempts := 0
	chain := pipeline(factory, store, func(ctx context.Context, cmd stubCommand) (*stubResult, error) {
		attempts++
		return &stubResult{Value: "created"}, nil
	})

	first, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[stubCommand, *stubResult](context.Background(), chain, stubCommand{key: "k1"})
	require.NoError(t, err)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, 1, attempts, "second dispatch replays the stored result")
}
