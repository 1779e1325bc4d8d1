package property

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"staynest/internal/domain/shared/fault"
)

var ErrMediaNotFound = fmt.Errorf("property: media item %w", fault.ErrNotFound)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaItem is one uploaded file in a media collection.
type MediaItem struct {
	ID           string
	URL          string
	Type         MediaType
	Filename     string
	Tags         []string
	IsCover      bool
	DisplayOrder int
	UploadedAt   time.Time
}

// Tagged reports whether the item carries at least one non-empty tag.
func (m MediaItem) Tagged() bool {
	for _, tag := range m.Tags {
		if strings.TrimSpace(tag) != "" {
			return true
		}
	}
	return false
}

// MediaCollection holds the images or the videos of a property or room.
type MediaCollection struct {
	Items []MediaItem
}

// Add appends an uploaded item after validating its shape.
func (c *MediaCollection) Add(item MediaItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return fault.Invalid("media id is required", nil)
	}
	if strings.TrimSpace(item.URL) == "" {
		return fault.Invalid("media url is required", nil)
	}
	if item.Type != MediaImage && item.Type != MediaVideo {
		return fault.Invalid("media type must be image or video", string(item.Type))
	}
	if item.IsCover && item.Type != MediaImage {
		return fault.Invalid("only images can be cover", string(item.Type))
	}
	for _, existing := range c.Items {
		if existing.ID == item.ID {
			return fault.Invalid("media id already exists", item.ID)
		}
	}
	if item.IsCover {
		c.clearCovers()
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetCover flags the chosen image as cover and clears the flag on every
// sibling in the same pass, so readers never observe two covers.
func (c *MediaCollection) SetCover(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrMediaNotFound
	}
	if c.Items[idx].Type != MediaImage {
		return fault.Invalid("only images can be cover", string(c.Items[idx].Type))
	}
	c.clearCovers()
	c.Items[idx].IsCover = true
	return nil
}

// Cover returns the current cover image, if any.
func (c *MediaCollection) Cover() (MediaItem, bool) {
	for _, item := range c.Items {
		if item.IsCover {
			return item, true
		}
	}
	return MediaItem{}, false
}

// Remove deletes an item. Removing the cover leaves the collection coverless
// rather than silently promoting another image.
func (c *MediaCollection) Remove(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrMediaNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return nil
}

// Tag replaces the tag set of an item, dropping empty entries.
func (c *MediaCollection) Tag(id string, tags []string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrMediaNotFound
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	c.Items[idx].Tags = cleaned
	return nil
}

// Untagged lists the items with an empty tag set.
func (c *MediaCollection) Untagged() []MediaItem {
	var out []MediaItem
	for _, item := range c.Items {
		if !item.Tagged() {
			out = append(out, item)
		}
	}
	return out
}

// ByDisplayOrder returns the items sorted for presentation.
func (c *MediaCollection) ByDisplayOrder() []MediaItem {
	out := append([]MediaItem(nil), c.Items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

func (c *MediaCollection) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *MediaCollection) clearCovers() {
	for i := range c.Items {
		c.Items[i].IsCover = false
	}
}

// collections enumerates every media collection under the aggregate, rooms
// included; the publish gate walks them all.
func (p *Property) collections() []*MediaCollection {
	out := []*MediaCollection{&p.Images, &p.Videos}
	for i := range p.Rooms {
		out = append(out, &p.Rooms[i].Images, &p.Rooms[i].Videos)
	}
	return out
}
