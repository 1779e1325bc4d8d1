package property

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/outbox"
	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

const (
	approvePropertyKey = "property.review.approve"
	rejectPropertyKey  = "property.review.reject"
)

type ReviewResult struct {
	PropertyID string `json:"property_id"`
	State      string `json:"state"`
}

type ApprovePropertyCommand struct {
	PropertyID string
}

func (c ApprovePropertyCommand) Key() string { return approvePropertyKey }

type ApprovePropertyHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *ApprovePropertyHandler) Handle(ctx context.Context, cmd ApprovePropertyCommand) (*ReviewResult, error) {
	return review(ctx, cmd.PropertyID, h.Outbox, h.Encoder, h.Logger, "property published", func(p *domainproperty.Property) error {
		return p.Publish(nowOrDefault(h.Now))
	})
}

type RejectPropertyCommand struct {
	PropertyID string
	Reason     string
}

func (c RejectPropertyCommand) Key() string { return rejectPropertyKey }

type RejectPropertyHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *RejectPropertyHandler) Handle(ctx context.Context, cmd RejectPropertyCommand) (*ReviewResult, error) {
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return nil, fault.Invalid("rejection reason is required", nil)
	}
	return review(ctx, cmd.PropertyID, h.Outbox, h.Encoder, h.Logger, "property rejected", func(p *domainproperty.Property) error {
		return p.Reject(reason, nowOrDefault(h.Now))
	})
}

func review(ctx context.Context, propertyID string, box outbox.Outbox, enc outbox.EventEncoder, logger *slog.Logger, msg string, apply func(*domainproperty.Property) error) (*ReviewResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(propertyID))
	if err != nil {
		return nil, err
	}
	if err := apply(prop); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, prop, box, enc); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info(msg, "property_id", prop.ID, "state", prop.State)
	}
	return &ReviewResult{PropertyID: string(prop.ID), State: string(prop.State)}, nil
}

var _ commands.Handler[ApprovePropertyCommand, *ReviewResult] = (*ApprovePropertyHandler)(nil)
var _ commands.Handler[RejectPropertyCommand, *ReviewResult] = (*RejectPropertyHandler)(nil)
