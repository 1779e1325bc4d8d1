package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func draftProperty(t *testing.T) *Property {
	t.Helper()
	prop, err := New(CreateParams{
		ID:    "prop-1",
		Host:  "host-1",
		Title: "Canal View Loft",
		Address: Address{
			Line1:   "12 Keizersgracht",
			City:    "Amsterdam",
			Country: "NL",
		},
		Now: testNow,
	})
	require.NoError(t, err)
	return prop
}

func validRoom(id RoomID) Room {
	return Room{
		ID:   id,
		Name: "Double",
		Beds: []Bed{{Kind: "double", Count: 1, Accommodates: 2}},
		Occupancy: Occupancy{
			BaseAdults:       1,
			MaximumAdults:    2,
			MaximumChildren:  1,
			MaximumOccupancy: 2,
		},
		Rates: RateCard{
			BaseAdultsCharge: money.Must(8000, "USD"),
		},
		Availability: []AvailabilityPeriod{
			{Start: testNow, End: testNow.AddDate(0, 6, 0), Units: 2},
		},
	}
}

// readyProperty is a draft that passes every onboarding gate.
func readyProperty(t *testing.T, gate PublishGate) *Property {
	t.Helper()
	prop := draftProperty(t)
	require.NoError(t, prop.AddRoom(validRoom("room-1"), testNow))
	for i := 0; i < gate.MinimumMedia; i++ {
		item := image("m" + string(rune('1'+i)))
		item.Tags = []string{"interior"}
		require.NoError(t, prop.Images.Add(item))
	}
	return prop
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing id", CreateParams{Host: "h", Title: "t", Now: testNow}},
		{"missing host", CreateParams{ID: "p", Title: "t", Now: testNow}},
		{"missing title", CreateParams{ID: "p", Host: "h", Title: "  ", Now: testNow}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.params)
			assert.ErrorIs(t, err, fault.ErrValidation)
		})
	}
}

func TestNewStartsAsDraftWithEvent(t *testing.T) {
	prop := draftProperty(t)

	assert.Equal(t, PropertyDraft, prop.State)
	assert.False(t, prop.Bookable())

	events := prop.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "property.created", events[0].EventName())
	assert.Equal(t, "prop-1", events[0].AggregateID())
}

func TestAddRoomRejectsDuplicateAndInvalid(t *testing.T) {
	prop := draftProperty(t)
	require.NoError(t, prop.AddRoom(validRoom("room-1"), testNow))

	err := prop.AddRoom(validRoom("room-1"), testNow)
	assert.ErrorIs(t, err, fault.ErrValidation)

	bad := validRoom("room-2")
	bad.Occupancy.BaseAdults = 0
	assert.ErrorIs(t, prop.AddRoom(bad, testNow), fault.ErrValidation)
	require.Len(t, prop.Rooms, 1)
}

func TestRoomValidateOccupancyAgainstBeds(t *testing.T) {
	room := validRoom("room-1")
	room.Occupancy.MaximumOccupancy = 5
	assert.ErrorIs(t, room.Validate(), fault.ErrValidation, "occupancy must match bed capacity")

	room = validRoom("room-1")
	room.Availability = []AvailabilityPeriod{{Start: testNow, End: testNow, Units: 1}}
	assert.ErrorIs(t, room.Validate(), fault.ErrValidation, "empty period")
}

func TestRoomLookup(t *testing.T) {
	prop := draftProperty(t)
	require.NoError(t, prop.AddRoom(validRoom("room-1"), testNow))

	room, err := prop.Room("room-1")
	require.NoError(t, err)
	assert.Equal(t, RoomID("room-1"), room.ID)

	_, err = prop.Room("room-9")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestRecomputeProgress(t *testing.T) {
	gate := PublishGate{MinimumMedia: 1}
	prop := draftProperty(t)

	prop.RecomputeProgress(gate)
	assert.True(t, prop.Progress.BasicsComplete)
	assert.False(t, prop.Progress.RoomsComplete)
	assert.False(t, prop.Progress.MediaComplete)
	assert.False(t, prop.Progress.Complete())

	require.NoError(t, prop.AddRoom(validRoom("room-1"), testNow))
	require.NoError(t, prop.Images.Add(image("m1", "exterior")))
	prop.RecomputeProgress(gate)
	assert.True(t, prop.Progress.Complete())
}

func TestSubmitForReview(t *testing.T) {
	gate := PublishGate{MinimumMedia: 1}

	incomplete := draftProperty(t)
	err := incomplete.SubmitForReview(gate, testNow)
	assert.ErrorIs(t, err, ErrNotPublishable)
	assert.Equal(t, PropertyDraft, incomplete.State)

	prop := readyProperty(t, gate)
	require.NoError(t, prop.SubmitForReview(gate, testNow))
	assert.Equal(t, PropertyPending, prop.State)

	err = prop.SubmitForReview(gate, testNow)
	assert.ErrorIs(t, err, ErrInvalidState, "pending cannot resubmit")
}

func TestReviewCycle(t *testing.T) {
	gate := PublishGate{MinimumMedia: 1}
	prop := readyProperty(t, gate)
	require.NoError(t, prop.SubmitForReview(gate, testNow))

	require.NoError(t, prop.Reject("photos too dark", testNow))
	assert.Equal(t, PropertyRejected, prop.State)
	assert.Equal(t, "photos too dark", prop.RejectReason)
	assert.False(t, prop.Bookable())

	// A rejected listing can be fixed up and resubmitted.
	require.NoError(t, prop.SubmitForReview(gate, testNow))
	assert.Equal(t, PropertyPending, prop.State)
	assert.Empty(t, prop.RejectReason)

	require.NoError(t, prop.Publish(testNow))
	assert.Equal(t, PropertyPublished, prop.State)
	assert.True(t, prop.Bookable())

	assert.ErrorIs(t, prop.Publish(testNow), ErrInvalidState)
	assert.ErrorIs(t, prop.Reject("late", testNow), ErrInvalidState)
}

func TestLifecycleEmitsEvents(t *testing.T) {
	gate := PublishGate{MinimumMedia: 1}
	prop := readyProperty(t, gate)
	prop.ClearEvents()

	require.NoError(t, prop.SubmitForReview(gate, testNow))
	require.NoError(t, prop.Publish(testNow))

	events := prop.PendingEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "property.submitted", events[0].EventName())
	assert.Equal(t, "property.published", events[1].EventName())
}
