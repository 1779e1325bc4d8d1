package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func image(id string, tags ...string) MediaItem {
	return MediaItem{
		ID:       id,
		URL:      "https://cdn.example.com/" + id + ".jpg",
		Type:     MediaImage,
		Filename: id + ".jpg",
		Tags:     tags,
	}
}

func TestCollectionAddValidation(t *testing.T) {
	var col MediaCollection

	assert.Error(t, col.Add(MediaItem{URL: "https://x/y.jpg", Type: MediaImage}), "missing id")
	assert.Error(t, col.Add(MediaItem{ID: "m1", Type: MediaImage}), "missing url")
	assert.Error(t, col.Add(MediaItem{ID: "m1", URL: "https://x/y", Type: "gif"}), "unknown type")
	assert.Error(t, col.Add(MediaItem{ID: "m1", URL: "https://x/y", Type: MediaVideo, IsCover: true}), "video cover")

	require.NoError(t, col.Add(image("m1")))
	assert.Error(t, col.Add(image("m1")), "duplicate id")
}

func TestCoverIsUnique(t *testing.T) {
	var col MediaCollection
	require.NoError(t, col.Add(image("m1")))
	require.NoError(t, col.Add(image("m2")))

	require.NoError(t, col.SetCover("m1"))
	require.NoError(t, col.SetCover("m2"))

	cover, ok := col.Cover()
	require.True(t, ok)
	assert.Equal(t, "m2", cover.ID)

	covers := 0
	for _, item := range col.Items {
		if item.IsCover {
			covers++
		}
	}
	assert.Equal(t, 1, covers)
}

func TestAddingCoverClearsPrevious(t *testing.T) {
	var col MediaCollection
	first := image("m1")
	first.IsCover = true
	require.NoError(t, col.Add(first))

	second := image("m2")
	second.IsCover = true
	require.NoError(t, col.Add(second))

	cover, ok := col.Cover()
	require.True(t, ok)
	assert.Equal(t, "m2", cover.ID)
}

func TestSetCoverRejectsVideo(t *testing.T) {
	var col MediaCollection
	require.NoError(t, col.Add(MediaItem{ID: "v1", URL: "https://x/v1", Type: MediaVideo}))

	assert.Error(t, col.SetCover("v1"))
	assert.ErrorIs(t, col.SetCover("missing"), ErrMediaNotFound)
}

func TestRemoveCoverLeavesCollectionCoverless(t *testing.T) {
	var col MediaCollection
	require.NoError(t, col.Add(image("m1")))
	require.NoError(t, col.Add(image("m2")))
	require.NoError(t, col.SetCover("m1"))

	require.NoError(t, col.Remove("m1"))

	_, ok := col.Cover()
	assert.False(t, ok, "no silent promotion of the next image")
	assert.ErrorIs(t, col.Remove("m1"), ErrMediaNotFound)
}

func TestTagDropsEmptyEntries(t *testing.T) {
	var col MediaCollection
	require.NoError(t, col.Add(image("m1")))

	require.NoError(t, col.Tag("m1", []string{" ", "bedroom", "", "balcony"}))
	assert.Equal(t, []string{"bedroom", "balcony"}, col.Items[0].Tags)
	assert.True(t, col.Items[0].Tagged())

	require.NoError(t, col.Tag("m1", []string{"  ", ""}))
	assert.False(t, col.Items[0].Tagged())
	assert.ErrorIs(t, col.Tag("missing", []string{"x"}), ErrMediaNotFound)
}

func TestUntagged(t *testing.T) {
	var col MediaCollection
	require.NoError(t, col.Add(image("m1", "kitchen")))
	require.NoError(t, col.Add(image("m2")))
	require.NoError(t, col.Add(image("m3", "  ")))

	untagged := col.Untagged()
	require.Len(t, untagged, 2)
	assert.Equal(t, "m2", untagged[0].ID)
	assert.Equal(t, "m3", untagged[1].ID)
}

func TestGateRequiresTagsAndMinimumCount(t *testing.T) {
	gate := PublishGate{MinimumMedia: 2}
	prop := draftProperty(t)

	result := gate.Check(prop)
	assert.False(t, result.OK, "empty listing")
	assert.Zero(t, result.TotalMedia)

	require.NoError(t, prop.Images.Add(image("m1", "exterior")))
	result = gate.Check(prop)
	assert.False(t, result.OK, "below minimum count")
	assert.Equal(t, 1, result.TotalMedia)
	assert.Empty(t, result.Incomplete)

	require.NoError(t, prop.Images.Add(image("m2")))
	result = gate.Check(prop)
	assert.False(t, result.OK, "untagged item present")
	require.Len(t, result.Incomplete, 1)
	assert.Equal(t, "m2", result.Incomplete[0].ID)

	require.NoError(t, prop.Images.Tag("m2", []string{"living room"}))
	result = gate.Check(prop)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.TotalMedia)
}

func TestGateWalksRoomMedia(t *testing.T) {
	gate := PublishGate{MinimumMedia: 1}
	prop := draftProperty(t)
	require.NoError(t, prop.AddRoom(validRoom("room-1"), prop.CreatedAt))
	require.NoError(t, prop.Images.Add(image("m1", "exterior")))

	room, err := prop.Room("room-1")
	require.NoError(t, err)
	require.NoError(t, room.Images.Add(image("r1")))

	result := gate.Check(prop)
	assert.False(t, result.OK)
	assert.Equal(t, 2, result.TotalMedia)
	require.Len(t, result.Incomplete, 1)
	assert.Equal(t, "r1", result.Incomplete[0].ID)
}

func TestEnsureCoverAssigned(t *testing.T) {
	prop := draftProperty(t)
	later := image("m2", "kitchen")
	later.DisplayOrder = 2
	first := image("m1", "exterior")
	first.DisplayOrder = 1
	require.NoError(t, prop.Images.Add(later))
	require.NoError(t, prop.Images.Add(first))

	prop.EnsureCoverAssigned()

	cover, ok := prop.Images.Cover()
	require.True(t, ok)
	assert.Equal(t, "m1", cover.ID, "lowest display order wins")

	// An explicit cover stays put.
	require.NoError(t, prop.Images.SetCover("m2"))
	prop.EnsureCoverAssigned()
	cover, _ = prop.Images.Cover()
	assert.Equal(t, "m2", cover.ID)
}

func TestEnsureCoverAssignedNoImages(t *testing.T) {
	prop := draftProperty(t)
	prop.EnsureCoverAssigned()
	_, ok := prop.Images.Cover()
	assert.False(t, ok)
}
