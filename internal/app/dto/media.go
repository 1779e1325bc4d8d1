package dto

import (
	"time"

	"staynest/internal/domain/property"
)

type MediaItem struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	Tags         []string  `json:"tags"`
	IsCover      bool      `json:"is_cover"`
	DisplayOrder int       `json:"display_order"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func NewMediaItem(item property.MediaItem) MediaItem {
	return MediaItem{
		ID:           item.ID,
		URL:          item.URL,
		Type:         string(item.Type),
		Filename:     item.Filename,
		Tags:         append([]string(nil), item.Tags...),
		IsCover:      item.IsCover,
		DisplayOrder: item.DisplayOrder,
		UploadedAt:   item.UploadedAt,
	}
}

type GateResult struct {
	OK         bool        `json:"ok"`
	TotalMedia int         `json:"total_media"`
	Incomplete []MediaItem `json:"incomplete_items"`
}

func NewGateResult(result property.GateResult) GateResult {
	out := GateResult{OK: result.OK, TotalMedia: result.TotalMedia, Incomplete: []MediaItem{}}
	for _, item := range result.Incomplete {
		out.Incomplete = append(out.Incomplete, NewMediaItem(item))
	}
	return out
}

type FormProgress struct {
	BasicsComplete bool `json:"basics_complete"`
	RoomsComplete  bool `json:"rooms_complete"`
	MediaComplete  bool `json:"media_complete"`
	Complete       bool `json:"complete"`
}

func NewFormProgress(p property.FormProgress) FormProgress {
	return FormProgress{
		BasicsComplete: p.BasicsComplete,
		RoomsComplete:  p.RoomsComplete,
		MediaComplete:  p.MediaComplete,
		Complete:       p.Complete(),
	}
}
