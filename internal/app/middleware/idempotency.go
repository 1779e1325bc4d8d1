package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/domain/shared/fault"
)

// IdempotentCommand must be implemented by commands that want idempotency guarantees.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any // should match the handler result type
}

type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	Error      string
	FaultClass string
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

var (
	errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")
)

// Idempotency replays the recorded outcome for a repeated key. Concurrency
// conflicts are never recorded: they are transient by definition, and caching
// one would turn the "retry the request" guidance into a permanent failure.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok {
				return nextFn(ctx, cmd)
			}
			key := idCmd.IdempotencyKey()
			if key == "" {
				return nextFn(ctx, cmd)
			}
			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if found {
				if rec.Error != "" {
					return nil, replayError(rec)
				}
				proto := idCmd.ResultPrototype()
				if proto == nil {
					return nil, errMissingPrototype
				}
				if err := codec.Decode(rec.Payload, proto); err != nil {
					return nil, err
				}
				return normalizePrototype(proto), nil
			}
			result, err := nextFn(ctx, cmd)
			record := IdempotencyRecord{
				Key:        key,
				OccurredAt: time.Now().UTC(),
			}
			if err != nil {
				if errors.Is(err, fault.ErrConcurrencyConflict) {
					return nil, err
				}
				record.Error = err.Error()
				record.FaultClass = faultClassOf(err)
				if saveErr := store.Save(ctx, record); saveErr != nil {
					return nil, errors.Join(err, saveErr)
				}
				return nil, err
			}
			if result != nil {
				payload, encErr := codec.Encode(result)
				if encErr != nil {
					return nil, encErr
				}
				record.Payload = payload
			}
			if saveErr := store.Save(ctx, record); saveErr != nil {
				return nil, saveErr
			}
			return result, nil
		})
	}
}

const (
	faultClassValidation   = "validation"
	faultClassUnavailable  = "unavailable"
	faultClassInvalidState = "invalid_state"
	faultClassNotFound     = "not_found"
)

func faultClassOf(err error) string {
	switch {
	case errors.Is(err, fault.ErrValidation):
		return faultClassValidation
	case errors.Is(err, fault.ErrUnavailable):
		return faultClassUnavailable
	case errors.Is(err, fault.ErrInvalidStateTransition):
		return faultClassInvalidState
	case errors.Is(err, fault.ErrNotFound):
		return faultClassNotFound
	default:
		return ""
	}
}

func sentinelFor(class string) error {
	switch class {
	case faultClassValidation:
		return fault.ErrValidation
	case faultClassUnavailable:
		return fault.ErrUnavailable
	case faultClassInvalidState:
		return fault.ErrInvalidStateTransition
	case faultClassNotFound:
		return fault.ErrNotFound
	default:
		return nil
	}
}

// replayedError restores the fault class of a recorded failure so a replay
// still maps to the same HTTP status.
type replayedError struct {
	msg   string
	class error
}

func (e *replayedError) Error() string { return e.msg }

func (e *replayedError) Unwrap() error { return e.class }

func replayError(rec IdempotencyRecord) error {
	if class := sentinelFor(rec.FaultClass); class != nil {
		return &replayedError{msg: rec.Error, class: class}
	}
	return errors.New(rec.Error)
}

func normalizePrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Interface()
	}
	return proto
}
