package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staynest/internal/app/commands"
	"staynest/internal/app/dto"
	mediaapp "staynest/internal/app/handlers/media"
)

type MediaHandler struct {
	Commands commands.Bus
}

// Upload takes a multipart form with a "file" part plus media_type, optional
// room_id and a comma separated "tags" field.
func (h MediaHandler) Upload(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	cmd := mediaapp.UploadMediaCommand{
		HostID:      hostID,
		PropertyID:  c.Param("id"),
		RoomID:      c.PostForm("room_id"),
		MediaType:   c.DefaultPostForm("media_type", "image"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Tags:        splitTags(c.PostForm("tags")),
		Reader:      file,
	}
	result, err := commands.Dispatch[mediaapp.UploadMediaCommand, *dto.MediaItem](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type tagMediaRequest struct {
	RoomID    string   `json:"room_id"`
	MediaType string   `json:"media_type"`
	Tags      []string `json:"tags"`
}

func (h MediaHandler) Tag(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	var req tagMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MediaType == "" {
		req.MediaType = "image"
	}
	cmd := mediaapp.TagMediaCommand{
		HostID:     hostID,
		PropertyID: c.Param("id"),
		RoomID:     req.RoomID,
		MediaType:  req.MediaType,
		MediaID:    c.Param("mediaID"),
		Tags:       req.Tags,
	}
	result, err := commands.Dispatch[mediaapp.TagMediaCommand, *mediaapp.MediaActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setCoverRequest struct {
	RoomID string `json:"room_id"`
}

func (h MediaHandler) SetCover(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	var req setCoverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := mediaapp.SetCoverCommand{
		HostID:     hostID,
		PropertyID: c.Param("id"),
		RoomID:     req.RoomID,
		MediaID:    c.Param("mediaID"),
	}
	result, err := commands.Dispatch[mediaapp.SetCoverCommand, *mediaapp.MediaActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MediaHandler) Remove(c *gin.Context) {
	hostID, ok := userID(c)
	if !ok {
		return
	}
	cmd := mediaapp.RemoveMediaCommand{
		HostID:     hostID,
		PropertyID: c.Param("id"),
		RoomID:     c.Query("room_id"),
		MediaType:  c.DefaultQuery("media_type", "image"),
		MediaID:    c.Param("mediaID"),
	}
	result, err := commands.Dispatch[mediaapp.RemoveMediaCommand, *mediaapp.MediaActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

var _ MediaHTTP = MediaHandler{}
