package media

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

const (
	tagMediaKey    = "property.media.tag"
	setCoverKey    = "property.media.set_cover"
	removeMediaKey = "property.media.remove"
)

type MediaActionResult struct {
	PropertyID string `json:"property_id"`
	MediaID    string `json:"media_id"`
}

// TagMediaCommand replaces the tag set of one media item.
type TagMediaCommand struct {
	HostID     string
	PropertyID string
	RoomID     string
	MediaType  string
	MediaID    string
	Tags       []string
}

func (c TagMediaCommand) Key() string { return tagMediaKey }

type TagMediaHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *TagMediaHandler) Handle(ctx context.Context, cmd TagMediaCommand) (*MediaActionResult, error) {
	return mutateCollection(ctx, cmd.HostID, cmd.PropertyID, cmd.RoomID, cmd.MediaType, func(col *domainproperty.MediaCollection) error {
		return col.Tag(cmd.MediaID, cmd.Tags)
	}, cmd.MediaID, nowOrDefault(h.Now), h.Logger, "media tagged")
}

// SetCoverCommand promotes one image to collection cover; the previous cover
// flag is cleared in the same write.
type SetCoverCommand struct {
	HostID     string
	PropertyID string
	RoomID     string
	MediaID    string
}

func (c SetCoverCommand) Key() string { return setCoverKey }

type SetCoverHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *SetCoverHandler) Handle(ctx context.Context, cmd SetCoverCommand) (*MediaActionResult, error) {
	return mutateCollection(ctx, cmd.HostID, cmd.PropertyID, cmd.RoomID, string(domainproperty.MediaImage), func(col *domainproperty.MediaCollection) error {
		return col.SetCover(cmd.MediaID)
	}, cmd.MediaID, nowOrDefault(h.Now), h.Logger, "cover assigned")
}

// RemoveMediaCommand deletes a media item; if it was the cover the collection
// is left coverless.
type RemoveMediaCommand struct {
	HostID     string
	PropertyID string
	RoomID     string
	MediaType  string
	MediaID    string
}

func (c RemoveMediaCommand) Key() string { return removeMediaKey }

type RemoveMediaHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *RemoveMediaHandler) Handle(ctx context.Context, cmd RemoveMediaCommand) (*MediaActionResult, error) {
	return mutateCollection(ctx, cmd.HostID, cmd.PropertyID, cmd.RoomID, cmd.MediaType, func(col *domainproperty.MediaCollection) error {
		return col.Remove(cmd.MediaID)
	}, cmd.MediaID, nowOrDefault(h.Now), h.Logger, "media removed")
}

func mutateCollection(ctx context.Context, hostID, propertyID, roomID, mediaType string, apply func(*domainproperty.MediaCollection) error, mediaID string, now time.Time, logger *slog.Logger, msg string) (*MediaActionResult, error) {
	if strings.TrimSpace(hostID) == "" {
		return nil, fault.Invalid("host id is required", nil)
	}
	kind := domainproperty.MediaType(strings.ToLower(strings.TrimSpace(mediaType)))
	if kind != domainproperty.MediaImage && kind != domainproperty.MediaVideo {
		return nil, fault.Invalid("media type must be image or video", mediaType)
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(propertyID))
	if err != nil {
		return nil, err
	}
	if prop.Host != domainproperty.HostID(hostID) {
		return nil, ErrPropertyNotOwned
	}
	collection, _, err := targetCollection(prop, roomID, kind)
	if err != nil {
		return nil, err
	}
	if err := apply(collection); err != nil {
		return nil, err
	}
	prop.UpdatedAt = now
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info(msg, "property_id", prop.ID, "media_id", mediaID)
	}
	return &MediaActionResult{PropertyID: string(prop.ID), MediaID: mediaID}, nil
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[TagMediaCommand, *MediaActionResult] = (*TagMediaHandler)(nil)
var _ commands.Handler[SetCoverCommand, *MediaActionResult] = (*SetCoverHandler)(nil)
var _ commands.Handler[RemoveMediaCommand, *MediaActionResult] = (*RemoveMediaHandler)(nil)
