package property

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/dto"
	"staynest/internal/app/outbox"
	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

const completeMediaKey = "property.media.complete"

var ErrPropertyNotOwned = fmt.Errorf("property: not owned by host: %w", fault.ErrValidation)

type CompleteMediaCommand struct {
	HostID     string
	PropertyID string
}

func (c CompleteMediaCommand) Key() string { return completeMediaKey }

type CompleteMediaResult struct {
	PropertyID string           `json:"property_id"`
	State      string           `json:"state"`
	Gate       dto.GateResult   `json:"gate"`
	Progress   dto.FormProgress `json:"progress"`
}

type CompleteMediaHandler struct {
	Gate    domainproperty.PublishGate
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

// Handle runs the media gate over the whole listing. On failure the result
// carries every untagged item and nothing is mutated. On success the cover is
// auto-assigned when missing and the listing moves into the review queue.
func (h *CompleteMediaHandler) Handle(ctx context.Context, cmd CompleteMediaCommand) (*CompleteMediaResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if prop.Host != domainproperty.HostID(cmd.HostID) {
		return nil, ErrPropertyNotOwned
	}

	check := h.Gate.Check(prop)
	if !check.OK {
		// Recompute so the reported progress matches the failing gate; the
		// unit is never saved on this path, so nothing persists.
		prop.RecomputeProgress(h.Gate)
		return &CompleteMediaResult{
			PropertyID: string(prop.ID),
			State:      string(prop.State),
			Gate:       dto.NewGateResult(check),
			Progress:   dto.NewFormProgress(prop.Progress),
		}, nil
	}

	prop.EnsureCoverAssigned()
	if err := prop.SubmitForReview(h.Gate, nowOrDefault(h.Now)); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, prop, h.Outbox, h.Encoder); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property submitted for review", "property_id", prop.ID, "media_total", check.TotalMedia)
	}
	return &CompleteMediaResult{
		PropertyID: string(prop.ID),
		State:      string(prop.State),
		Gate:       dto.NewGateResult(check),
		Progress:   dto.NewFormProgress(prop.Progress),
	}, nil
}

var _ commands.Handler[CompleteMediaCommand, *CompleteMediaResult] = (*CompleteMediaHandler)(nil)
