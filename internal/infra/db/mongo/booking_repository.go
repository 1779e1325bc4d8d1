package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staynest/internal/domain/booking"
	domainpricing "staynest/internal/domain/pricing"
	domainproperty "staynest/internal/domain/property"
	domainrange "staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
)

var ErrConcurrentUpdate = fmt.Errorf("mongo: concurrent update detected: %w", fault.ErrConcurrencyConflict)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts under a version filter: a stale version matches nothing and
// surfaces as ErrConcurrentUpdate.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) CommittedRanges(ctx context.Context, roomID domainproperty.RoomID) ([]domainrange.DateRange, error) {
	filter := bson.M{
		"room_id": string(roomID),
		"state":   bson.M{"$ne": string(domainbooking.StateCancelled)},
	}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"range": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ranges []domainrange.DateRange
	for cursor.Next(ctx) {
		var doc struct {
			Range rangeDocument `bson:"range"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ranges = append(ranges, doc.Range.toRange())
	}
	return ranges, cursor.Err()
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.toAggregate())
	}
	return bookings, cursor.Err()
}

type bookingDocument struct {
	ID           string                  `bson:"_id"`
	PropertyID   string                  `bson:"property_id"`
	RoomID       string                  `bson:"room_id"`
	GuestID      string                  `bson:"guest_id"`
	Range        rangeDocument           `bson:"range"`
	Adults       int                     `bson:"adults"`
	Children     int                     `bson:"children"`
	Price        domainpricing.Breakdown `bson:"price"`
	Payment      paymentDocument         `bson:"payment"`
	State        string                  `bson:"state"`
	Cancellation *cancellationDocument   `bson:"cancellation,omitempty"`
	CreatedAt    int64                   `bson:"created_at"`
	UpdatedAt    int64                   `bson:"updated_at"`
	Version      int64                   `bson:"version"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func (d rangeDocument) toRange() domainrange.DateRange {
	return domainrange.DateRange{CheckIn: millisToTime(d.CheckIn), CheckOut: millisToTime(d.CheckOut)}
}

type paymentDocument struct {
	Status        string `bson:"status"`
	Method        string `bson:"method"`
	PaidAmount    int64  `bson:"paid_amount"`
	PendingAmount int64  `bson:"pending_amount"`
	Currency      string `bson:"currency"`
}

type cancellationDocument struct {
	Reason           string `bson:"reason"`
	RefundPercentage int    `bson:"refund_percentage"`
	RefundAmount     int64  `bson:"refund_amount"`
	Currency         string `bson:"currency"`
	CancelledAt      int64  `bson:"cancelled_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		RoomID:     string(b.RoomID),
		GuestID:    b.GuestID,
		Range:      rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
		Adults:     b.Guests.Adults,
		Children:   b.Guests.Children,
		Price:      b.Price,
		Payment: paymentDocument{
			Status:        string(b.Payment.Status),
			Method:        b.Payment.Method,
			PaidAmount:    b.Payment.PaidAmount.Amount,
			PendingAmount: b.Payment.PendingAmount.Amount,
			Currency:      b.Payment.PendingAmount.Currency,
		},
		State:     string(b.State),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
	if b.Cancellation != nil {
		doc.Cancellation = &cancellationDocument{
			Reason:           b.Cancellation.Reason,
			RefundPercentage: b.Cancellation.RefundPercentage,
			RefundAmount:     b.Cancellation.RefundAmount.Amount,
			Currency:         b.Cancellation.RefundAmount.Currency,
			CancelledAt:      b.Cancellation.CancelledAt.UnixMilli(),
		}
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		PropertyID: domainproperty.PropertyID(d.PropertyID),
		RoomID:     domainproperty.RoomID(d.RoomID),
		GuestID:    d.GuestID,
		Range:      d.Range.toRange(),
		Guests:     domainbooking.GuestCount{Adults: d.Adults, Children: d.Children},
		Price:      d.Price,
		Payment: domainbooking.Payment{
			Status:        domainbooking.PaymentStatus(d.Payment.Status),
			Method:        d.Payment.Method,
			PaidAmount:    money.Money{Amount: d.Payment.PaidAmount, Currency: d.Payment.Currency},
			PendingAmount: money.Money{Amount: d.Payment.PendingAmount, Currency: d.Payment.Currency},
		},
		State:     domainbooking.BookingState(d.State),
		CreatedAt: millisToTime(d.CreatedAt),
		UpdatedAt: millisToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	if d.Cancellation != nil {
		b.Cancellation = &domainbooking.CancellationRecord{
			Reason:           d.Cancellation.Reason,
			RefundPercentage: d.Cancellation.RefundPercentage,
			RefundAmount:     money.Money{Amount: d.Cancellation.RefundAmount, Currency: d.Cancellation.Currency},
			CancelledAt:      millisToTime(d.Cancellation.CancelledAt),
		}
	}
	return b
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
