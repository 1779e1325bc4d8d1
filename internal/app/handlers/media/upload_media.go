package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/dto"
	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/infra/storage/s3"

	"github.com/google/uuid"
)

const uploadMediaKey = "property.media.upload"

var ErrPropertyNotOwned = fmt.Errorf("media: property not owned by host: %w", fault.ErrValidation)

type UploadMediaCommand struct {
	HostID      string
	PropertyID  string
	RoomID      string // empty for property-level media
	MediaType   string
	Filename    string
	ContentType string
	ObjectKey   string
	Tags        []string
	Reader      io.Reader
}

func (c UploadMediaCommand) Key() string { return uploadMediaKey }

type UploadMediaHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

// Handle stores the binary in object storage and records the resulting URL as
// a MediaItem on the owning collection. New items start untagged unless the
// upload carried tags; the publish gate keeps the listing back until they are
// tagged.
func (h *UploadMediaHandler) Handle(ctx context.Context, cmd UploadMediaCommand) (*dto.MediaItem, error) {
	if h.Uploader == nil {
		return nil, fmt.Errorf("media: uploader unavailable")
	}
	if strings.TrimSpace(cmd.HostID) == "" {
		return nil, fault.Invalid("host id is required", nil)
	}
	if cmd.Reader == nil {
		return nil, fault.Invalid("media reader is required", nil)
	}
	mediaType := domainproperty.MediaType(strings.ToLower(strings.TrimSpace(cmd.MediaType)))
	if mediaType != domainproperty.MediaImage && mediaType != domainproperty.MediaVideo {
		return nil, fault.Invalid("media type must be image or video", cmd.MediaType)
	}

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

	collection, roomID, err := targetCollection(prop, cmd.RoomID, mediaType)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(cmd.ObjectKey)
	if key == "" {
		key = fmt.Sprintf("%s/%s", cmd.PropertyID, uuid.NewString())
	}
	url, err := h.Uploader.Upload(ctx, key, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	now := nowOrDefault(h.Now)
	item := domainproperty.MediaItem{
		ID:           uuid.NewString(),
		URL:          url,
		Type:         mediaType,
		Filename:     strings.TrimSpace(cmd.Filename),
		Tags:         append([]string(nil), cmd.Tags...),
		DisplayOrder: len(collection.Items),
		UploadedAt:   now,
	}
	if err := collection.Add(item); err != nil {
		return nil, err
	}
	prop.UpdatedAt = now
	prop.Record(domainproperty.MediaUploaded{PropertyID: prop.ID, RoomID: roomID, MediaID: item.ID, URL: url, At: now})
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("media uploaded", "property_id", prop.ID, "room_id", roomID, "media_id", item.ID, "object_key", key)
	}
	out := dto.NewMediaItem(item)
	return &out, nil
}

// targetCollection resolves which collection the command addresses.
func targetCollection(prop *domainproperty.Property, roomID string, mediaType domainproperty.MediaType) (*domainproperty.MediaCollection, domainproperty.RoomID, error) {
	if strings.TrimSpace(roomID) == "" {
		if mediaType == domainproperty.MediaImage {
			return &prop.Images, "", nil
		}
		return &prop.Videos, "", nil
	}
	room, err := prop.Room(domainproperty.RoomID(roomID))
	if err != nil {
		return nil, "", err
	}
	if mediaType == domainproperty.MediaImage {
		return &room.Images, room.ID, nil
	}
	return &room.Videos, room.ID, nil
}

var _ commands.Handler[UploadMediaCommand, *dto.MediaItem] = (*UploadMediaHandler)(nil)
