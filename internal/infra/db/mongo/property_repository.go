package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/money"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("agg_property")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

type propertyDocument struct {
	ID           string           `bson:"_id"`
	Host         string           `bson:"host_id"`
	Title        string           `bson:"title"`
	Description  string           `bson:"description"`
	Address      addressDocument  `bson:"address"`
	State        string           `bson:"state"`
	Rooms        []roomDocument   `bson:"rooms"`
	Images       []mediaDocument  `bson:"images"`
	Videos       []mediaDocument  `bson:"videos"`
	Progress     progressDocument `bson:"progress"`
	RejectReason string           `bson:"reject_reason,omitempty"`
	CreatedAt    int64            `bson:"created_at"`
	UpdatedAt    int64            `bson:"updated_at"`
	Version      int64            `bson:"version"`
}

type addressDocument struct {
	Line1   string `bson:"line1"`
	City    string `bson:"city"`
	Country string `bson:"country"`
}

type progressDocument struct {
	Basics bool `bson:"basics"`
	Rooms  bool `bson:"rooms"`
	Media  bool `bson:"media"`
}

type roomDocument struct {
	ID               string           `bson:"id"`
	Name             string           `bson:"name"`
	Beds             []bedDocument    `bson:"beds"`
	BaseAdults       int              `bson:"base_adults"`
	MaximumAdults    int              `bson:"maximum_adults"`
	MaximumChildren  int              `bson:"maximum_children"`
	MaximumOccupancy int              `bson:"maximum_occupancy"`
	Currency         string           `bson:"currency"`
	BaseCharge       int64            `bson:"base_charge"`
	ExtraAdultCharge int64            `bson:"extra_adult_charge"`
	ChildCharge      int64            `bson:"child_charge"`
	Availability     []periodDocument `bson:"availability"`
	Images           []mediaDocument  `bson:"images"`
	Videos           []mediaDocument  `bson:"videos"`
}

type bedDocument struct {
	Kind         string `bson:"kind"`
	Count        int    `bson:"count"`
	Accommodates int    `bson:"accommodates"`
}

type periodDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
	Units int   `bson:"units"`
}

type mediaDocument struct {
	ID           string   `bson:"id"`
	URL          string   `bson:"url"`
	Type         string   `bson:"type"`
	Filename     string   `bson:"filename"`
	Tags         []string `bson:"tags"`
	IsCover      bool     `bson:"is_cover"`
	DisplayOrder int      `bson:"display_order"`
	UploadedAt   int64    `bson:"uploaded_at"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	doc := propertyDocument{
		ID:          string(p.ID),
		Host:        string(p.Host),
		Title:       p.Title,
		Description: p.Description,
		Address: addressDocument{
			Line1:   p.Address.Line1,
			City:    p.Address.City,
			Country: p.Address.Country,
		},
		State:        string(p.State),
		Images:       newMediaDocuments(p.Images),
		Videos:       newMediaDocuments(p.Videos),
		Progress:     progressDocument{Basics: p.Progress.BasicsComplete, Rooms: p.Progress.RoomsComplete, Media: p.Progress.MediaComplete},
		RejectReason: p.RejectReason,
		CreatedAt:    p.CreatedAt.UnixMilli(),
		UpdatedAt:    p.UpdatedAt.UnixMilli(),
		Version:      p.Version,
	}
	for i := range p.Rooms {
		doc.Rooms = append(doc.Rooms, newRoomDocument(&p.Rooms[i]))
	}
	return doc
}

func newRoomDocument(room *domainproperty.Room) roomDocument {
	doc := roomDocument{
		ID:               string(room.ID),
		Name:             room.Name,
		BaseAdults:       room.Occupancy.BaseAdults,
		MaximumAdults:    room.Occupancy.MaximumAdults,
		MaximumChildren:  room.Occupancy.MaximumChildren,
		MaximumOccupancy: room.Occupancy.MaximumOccupancy,
		Currency:         room.Rates.BaseAdultsCharge.Currency,
		BaseCharge:       room.Rates.BaseAdultsCharge.Amount,
		ExtraAdultCharge: room.Rates.ExtraAdultsCharge.Amount,
		ChildCharge:      room.Rates.ChildCharge.Amount,
		Images:           newMediaDocuments(room.Images),
		Videos:           newMediaDocuments(room.Videos),
	}
	for _, bed := range room.Beds {
		doc.Beds = append(doc.Beds, bedDocument{Kind: bed.Kind, Count: bed.Count, Accommodates: bed.Accommodates})
	}
	for _, period := range room.Availability {
		doc.Availability = append(doc.Availability, periodDocument{Start: period.Start.UnixMilli(), End: period.End.UnixMilli(), Units: period.Units})
	}
	return doc
}

func newMediaDocuments(c domainproperty.MediaCollection) []mediaDocument {
	docs := make([]mediaDocument, 0, len(c.Items))
	for _, item := range c.Items {
		docs = append(docs, mediaDocument{
			ID:           item.ID,
			URL:          item.URL,
			Type:         string(item.Type),
			Filename:     item.Filename,
			Tags:         item.Tags,
			IsCover:      item.IsCover,
			DisplayOrder: item.DisplayOrder,
			UploadedAt:   item.UploadedAt.UnixMilli(),
		})
	}
	return docs
}

func (d propertyDocument) toAggregate() *domainproperty.Property {
	p := &domainproperty.Property{
		ID:          domainproperty.PropertyID(d.ID),
		Host:        domainproperty.HostID(d.Host),
		Title:       d.Title,
		Description: d.Description,
		Address: domainproperty.Address{
			Line1:   d.Address.Line1,
			City:    d.Address.City,
			Country: d.Address.Country,
		},
		State:        domainproperty.PropertyState(d.State),
		Images:       toMediaCollection(d.Images),
		Videos:       toMediaCollection(d.Videos),
		Progress:     domainproperty.FormProgress{BasicsComplete: d.Progress.Basics, RoomsComplete: d.Progress.Rooms, MediaComplete: d.Progress.Media},
		RejectReason: d.RejectReason,
		CreatedAt:    millisToTime(d.CreatedAt),
		UpdatedAt:    millisToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	for _, room := range d.Rooms {
		p.Rooms = append(p.Rooms, room.toRoom())
	}
	return p
}

func (d roomDocument) toRoom() domainproperty.Room {
	room := domainproperty.Room{
		ID:   domainproperty.RoomID(d.ID),
		Name: d.Name,
		Occupancy: domainproperty.Occupancy{
			BaseAdults:       d.BaseAdults,
			MaximumAdults:    d.MaximumAdults,
			MaximumChildren:  d.MaximumChildren,
			MaximumOccupancy: d.MaximumOccupancy,
		},
		Rates: domainproperty.RateCard{
			BaseAdultsCharge:  money.Money{Amount: d.BaseCharge, Currency: d.Currency},
			ExtraAdultsCharge: money.Money{Amount: d.ExtraAdultCharge, Currency: d.Currency},
			ChildCharge:       money.Money{Amount: d.ChildCharge, Currency: d.Currency},
		},
		Images: toMediaCollection(d.Images),
		Videos: toMediaCollection(d.Videos),
	}
	for _, bed := range d.Beds {
		room.Beds = append(room.Beds, domainproperty.Bed{Kind: bed.Kind, Count: bed.Count, Accommodates: bed.Accommodates})
	}
	for _, period := range d.Availability {
		room.Availability = append(room.Availability, domainproperty.AvailabilityPeriod{Start: millisToTime(period.Start), End: millisToTime(period.End), Units: period.Units})
	}
	return room
}

func toMediaCollection(docs []mediaDocument) domainproperty.MediaCollection {
	col := domainproperty.MediaCollection{}
	for _, doc := range docs {
		col.Items = append(col.Items, domainproperty.MediaItem{
			ID:           doc.ID,
			URL:          doc.URL,
			Type:         domainproperty.MediaType(doc.Type),
			Filename:     doc.Filename,
			Tags:         doc.Tags,
			IsCover:      doc.IsCover,
			DisplayOrder: doc.DisplayOrder,
			UploadedAt:   millisToTime(doc.UploadedAt),
		})
	}
	return col
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
