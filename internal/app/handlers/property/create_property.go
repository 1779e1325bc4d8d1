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
	"staynest/internal/domain/shared/money"

	"github.com/google/uuid"
)

const (
	createPropertyKey = "property.create"
	addRoomKey        = "property.add_room"
)

type CreatePropertyCommand struct {
	HostID      string
	Title       string
	Description string
	Line1       string
	City        string
	Country     string

	IdempotencyKeyV string
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

func (c CreatePropertyCommand) Validate() error {
	if strings.TrimSpace(c.HostID) == "" {
		return fault.Invalid("host id is required", nil)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fault.Invalid("title is required", nil)
	}
	return nil
}

func (c CreatePropertyCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreatePropertyCommand) ResultPrototype() any { return &CreatePropertyResult{} }

type CreatePropertyResult struct {
	PropertyID string `json:"property_id"`
	State      string `json:"state"`
}

type CreatePropertyHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*CreatePropertyResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:          domainproperty.PropertyID(uuid.NewString()),
		Host:        domainproperty.HostID(strings.TrimSpace(cmd.HostID)),
		Title:       cmd.Title,
		Description: cmd.Description,
		Address: domainproperty.Address{
			Line1:   strings.TrimSpace(cmd.Line1),
			City:    strings.TrimSpace(cmd.City),
			Country: strings.TrimSpace(cmd.Country),
		},
		Now: nowOrDefault(h.Now),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, prop, h.Outbox, h.Encoder); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "host_id", prop.Host)
	}
	return &CreatePropertyResult{PropertyID: string(prop.ID), State: string(prop.State)}, nil
}

type BedInput struct {
	Kind         string
	Count        int
	Accommodates int
}

type PeriodInput struct {
	Start time.Time
	End   time.Time
	Units int
}

type AddRoomCommand struct {
	HostID     string
	PropertyID string
	Name       string
	Beds       []BedInput

	BaseAdults       int
	MaximumAdults    int
	MaximumChildren  int
	MaximumOccupancy int

	Currency          string
	BaseAdultsCharge  int64
	ExtraAdultsCharge int64
	ChildCharge       int64

	Availability []PeriodInput
}

func (c AddRoomCommand) Key() string { return addRoomKey }

type AddRoomResult struct {
	PropertyID string `json:"property_id"`
	RoomID     string `json:"room_id"`
}

type AddRoomHandler struct {
	Logger *slog.Logger
	Gate   domainproperty.PublishGate
	Now    func() time.Time
}

func (h *AddRoomHandler) Handle(ctx context.Context, cmd AddRoomCommand) (*AddRoomResult, error) {
	if strings.TrimSpace(cmd.Currency) == "" {
		return nil, fault.Invalid("currency is required", nil)
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if prop.Host != domainproperty.HostID(strings.TrimSpace(cmd.HostID)) {
		return nil, ErrPropertyNotOwned
	}

	room := domainproperty.Room{
		ID:   domainproperty.RoomID(uuid.NewString()),
		Name: strings.TrimSpace(cmd.Name),
		Occupancy: domainproperty.Occupancy{
			BaseAdults:       cmd.BaseAdults,
			MaximumAdults:    cmd.MaximumAdults,
			MaximumChildren:  cmd.MaximumChildren,
			MaximumOccupancy: cmd.MaximumOccupancy,
		},
		Rates: domainproperty.RateCard{
			BaseAdultsCharge:  money.Money{Amount: cmd.BaseAdultsCharge, Currency: cmd.Currency},
			ExtraAdultsCharge: money.Money{Amount: cmd.ExtraAdultsCharge, Currency: cmd.Currency},
			ChildCharge:       money.Money{Amount: cmd.ChildCharge, Currency: cmd.Currency},
		},
	}
	for _, bed := range cmd.Beds {
		room.Beds = append(room.Beds, domainproperty.Bed{Kind: bed.Kind, Count: bed.Count, Accommodates: bed.Accommodates})
	}
	for _, period := range cmd.Availability {
		room.Availability = append(room.Availability, domainproperty.AvailabilityPeriod{Start: period.Start, End: period.End, Units: period.Units})
	}

	if err := prop.AddRoom(room, nowOrDefault(h.Now)); err != nil {
		return nil, err
	}
	prop.RecomputeProgress(h.Gate)
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room added", "property_id", prop.ID, "room_id", room.ID)
	}
	return &AddRoomResult{PropertyID: string(prop.ID), RoomID: string(room.ID)}, nil
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now().UTC()
}

func drainEvents(ctx context.Context, prop *domainproperty.Property, box outbox.Outbox, enc outbox.EventEncoder) error {
	pending := prop.PendingEvents()
	prop.ClearEvents()
	if enc == nil {
		enc = outbox.JSONEventEncoder{}
	}
	return outbox.RecordDomainEvents(ctx, box, enc, pending)
}

var _ commands.Handler[CreatePropertyCommand, *CreatePropertyResult] = (*CreatePropertyHandler)(nil)
var _ commands.Handler[AddRoomCommand, *AddRoomResult] = (*AddRoomHandler)(nil)
