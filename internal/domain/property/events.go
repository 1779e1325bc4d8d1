package property

import "time"

type PropertyCreated struct {
	PropertyID PropertyID
	HostID     HostID
	At         time.Time
}

func (e PropertyCreated) EventName() string     { return "property.created" }
func (e PropertyCreated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyCreated) OccurredAt() time.Time { return e.At }

type RoomAdded struct {
	PropertyID PropertyID
	RoomID     RoomID
	At         time.Time
}

func (e RoomAdded) EventName() string     { return "property.room_added" }
func (e RoomAdded) AggregateID() string   { return string(e.PropertyID) }
func (e RoomAdded) OccurredAt() time.Time { return e.At }

type PropertySubmitted struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertySubmitted) EventName() string     { return "property.submitted" }
func (e PropertySubmitted) AggregateID() string   { return string(e.PropertyID) }
func (e PropertySubmitted) OccurredAt() time.Time { return e.At }

type PropertyApproved struct {
	PropertyID PropertyID
	At         time.Time
}

func (e PropertyApproved) EventName() string     { return "property.published" }
func (e PropertyApproved) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyApproved) OccurredAt() time.Time { return e.At }

type PropertyReviewRejected struct {
	PropertyID PropertyID
	Reason     string
	At         time.Time
}

func (e PropertyReviewRejected) EventName() string     { return "property.rejected" }
func (e PropertyReviewRejected) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyReviewRejected) OccurredAt() time.Time { return e.At }

type MediaUploaded struct {
	PropertyID PropertyID
	RoomID     RoomID
	MediaID    string
	URL        string
	At         time.Time
}

func (e MediaUploaded) EventName() string     { return "property.media_uploaded" }
func (e MediaUploaded) AggregateID() string   { return string(e.PropertyID) }
func (e MediaUploaded) OccurredAt() time.Time { return e.At }
