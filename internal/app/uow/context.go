package uow

import (
	"context"
	"errors"
)

// ErrUnitOfWorkMissing signals a handler that requires an ambient transaction
// was invoked outside the transaction middleware.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork makes the unit reachable by every handler invoked
// under the same dispatch.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext returns the ambient unit of work, if one is present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}
