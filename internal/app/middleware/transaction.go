package middleware

import (
	"context"
	"errors"

	"staynest/internal/app/commands"
	"staynest/internal/app/uow"
	"staynest/internal/domain/shared/fault"
)

var ErrUnitOfWorkMissing = errors.New("middleware: unit of work not found")

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction opens a unit of work around every command. A commit-time
// concurrency conflict means another transaction won the race; the command
// is re-run once in a fresh unit so it sees the winner's state, and only a
// second loss surfaces to the caller.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			var lastErr error
			for tries := 0; tries < 2; tries++ {
				res, err := runInUnit(ctx, factory, opts, nextFn, cmd)
				if err == nil {
					return res, nil
				}
				if !errors.Is(err, fault.ErrConcurrencyConflict) {
					return nil, err
				}
				lastErr = err
			}
			return nil, lastErr
		})
	}
}

func runInUnit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions, nextFn commandFunc, cmd commands.Command) (any, error) {
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}()

	res, err := nextFn(execCtx, cmd)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(execCtx); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}
