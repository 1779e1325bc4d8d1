package property

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staynest/internal/domain/shared/events"
	"staynest/internal/domain/shared/fault"
)

var (
	ErrInvalidState   = fmt.Errorf("property: %w", fault.ErrInvalidStateTransition)
	ErrNotFound       = fmt.Errorf("property: %w", fault.ErrNotFound)
	ErrRoomNotFound   = fmt.Errorf("property: room %w", fault.ErrNotFound)
	ErrNotPublishable = fmt.Errorf("property: %w", fault.ErrValidation)
)

type PropertyID string
type RoomID string
type HostID string

type PropertyState string

const (
	PropertyDraft     PropertyState = "DRAFT"
	PropertyPending   PropertyState = "PENDING"
	PropertyPublished PropertyState = "PUBLISHED"
	PropertyRejected  PropertyState = "REJECTED"
)

// FormProgress is the set of named completion gates the onboarding flow walks
// through. Each flag is recomputed from a pure predicate over the aggregate;
// nothing outside this package flips them directly.
type FormProgress struct {
	BasicsComplete bool
	RoomsComplete  bool
	MediaComplete  bool
}

func (f FormProgress) Complete() bool {
	return f.BasicsComplete && f.RoomsComplete && f.MediaComplete
}

type Address struct {
	Line1   string
	City    string
	Country string
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Line1) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

// Property is the root listing aggregate. It exclusively owns its Rooms and
// its property-level media collections.
type Property struct {
	ID           PropertyID
	Host         HostID
	Title        string
	Description  string
	Address      Address
	State        PropertyState
	Rooms        []Room
	Images       MediaCollection
	Videos       MediaCollection
	Progress     FormProgress
	RejectReason string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, p *Property) error
}

type CreateParams struct {
	ID          PropertyID
	Host        HostID
	Title       string
	Description string
	Address     Address
	Now         time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, fault.Invalid("property id is required", nil)
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, fault.Invalid("host id is required", nil)
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, fault.Invalid("title is required", nil)
	}
	now := params.Now.UTC()
	p := &Property{
		ID:          params.ID,
		Host:        params.Host,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Address:     params.Address,
		State:       PropertyDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Record(PropertyCreated{PropertyID: p.ID, HostID: p.Host, At: now})
	return p, nil
}

// Room returns the owned room or ErrRoomNotFound.
func (p *Property) Room(id RoomID) (*Room, error) {
	for i := range p.Rooms {
		if p.Rooms[i].ID == id {
			return &p.Rooms[i], nil
		}
	}
	return nil, ErrRoomNotFound
}

func (p *Property) AddRoom(room Room, now time.Time) error {
	if err := room.Validate(); err != nil {
		return err
	}
	for i := range p.Rooms {
		if p.Rooms[i].ID == room.ID {
			return fault.Invalid("room id already exists", string(room.ID))
		}
	}
	p.Rooms = append(p.Rooms, room)
	p.UpdatedAt = now.UTC()
	p.Record(RoomAdded{PropertyID: p.ID, RoomID: room.ID, At: p.UpdatedAt})
	return nil
}

// RecomputeProgress re-derives every onboarding gate from the aggregate.
// The media gate is supplied by the caller so its threshold stays
// configuration, not a literal baked into the domain.
func (p *Property) RecomputeProgress(gate PublishGate) {
	p.Progress.BasicsComplete = strings.TrimSpace(p.Title) != "" && p.Address.Valid()
	p.Progress.RoomsComplete = len(p.Rooms) > 0
	for i := range p.Rooms {
		if p.Rooms[i].Validate() != nil {
			p.Progress.RoomsComplete = false
			break
		}
	}
	p.Progress.MediaComplete = gate.Check(p).OK
}

// SubmitForReview moves a completed draft into the admin review queue.
func (p *Property) SubmitForReview(gate PublishGate, now time.Time) error {
	if p.State != PropertyDraft && p.State != PropertyRejected {
		return ErrInvalidState
	}
	p.RecomputeProgress(gate)
	if !p.Progress.Complete() {
		return ErrNotPublishable
	}
	p.State = PropertyPending
	p.RejectReason = ""
	p.UpdatedAt = now.UTC()
	p.Record(PropertySubmitted{PropertyID: p.ID, At: p.UpdatedAt})
	return nil
}

// Publish is the admin approval step.
func (p *Property) Publish(now time.Time) error {
	if p.State != PropertyPending {
		return ErrInvalidState
	}
	p.State = PropertyPublished
	p.UpdatedAt = now.UTC()
	p.Record(PropertyApproved{PropertyID: p.ID, At: p.UpdatedAt})
	return nil
}

// Reject sends a pending listing back to the host with a reason.
func (p *Property) Reject(reason string, now time.Time) error {
	if p.State != PropertyPending {
		return ErrInvalidState
	}
	p.State = PropertyRejected
	p.RejectReason = strings.TrimSpace(reason)
	p.UpdatedAt = now.UTC()
	p.Record(PropertyReviewRejected{PropertyID: p.ID, Reason: p.RejectReason, At: p.UpdatedAt})
	return nil
}

// Bookable reports whether guests may book against this listing.
func (p *Property) Bookable() bool {
	return p.State == PropertyPublished
}
