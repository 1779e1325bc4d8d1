package property

import (
	"context"

	"staynest/internal/app/dto"
	"staynest/internal/app/handlers/support"
	"staynest/internal/app/queries"
	"staynest/internal/app/uow"
	domainproperty "staynest/internal/domain/property"
)

const getPropertyKey = "property.get"

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

type PropertyView struct {
	ID           string           `json:"id"`
	HostID       string           `json:"host_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	State        string           `json:"state"`
	RejectReason string           `json:"reject_reason,omitempty"`
	Rooms        []RoomView       `json:"rooms"`
	Images       []dto.MediaItem  `json:"images"`
	Videos       []dto.MediaItem  `json:"videos"`
	Progress     dto.FormProgress `json:"progress"`
}

type RoomView struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Images []dto.MediaItem `json:"images"`
	Videos []dto.MediaItem `json:"videos"`
}

type GetPropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, query GetPropertyQuery) (*PropertyView, error) {
	unit, ctx, done, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done()

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(query.PropertyID))
	if err != nil {
		return nil, err
	}
	view := &PropertyView{
		ID:           string(prop.ID),
		HostID:       string(prop.Host),
		Title:        prop.Title,
		Description:  prop.Description,
		State:        string(prop.State),
		RejectReason: prop.RejectReason,
		Images:       mediaViews(prop.Images.ByDisplayOrder()),
		Videos:       mediaViews(prop.Videos.ByDisplayOrder()),
		Progress:     dto.NewFormProgress(prop.Progress),
	}
	for i := range prop.Rooms {
		room := &prop.Rooms[i]
		view.Rooms = append(view.Rooms, RoomView{
			ID:     string(room.ID),
			Name:   room.Name,
			Images: mediaViews(room.Images.ByDisplayOrder()),
			Videos: mediaViews(room.Videos.ByDisplayOrder()),
		})
	}
	return view, nil
}

func mediaViews(items []domainproperty.MediaItem) []dto.MediaItem {
	out := make([]dto.MediaItem, 0, len(items))
	for _, item := range items {
		out = append(out, dto.NewMediaItem(item))
	}
	return out
}

var _ queries.Handler[GetPropertyQuery, *PropertyView] = (*GetPropertyHandler)(nil)
