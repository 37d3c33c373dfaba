package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "tubo/internal/domain/booking"
	"tubo/internal/domain/shared/dates"
	"tubo/internal/domain/shared/money"
)

// HistoryRepository persists confirmed bookings; the STORE_MODE=mongo backing
// for the guest trip history. Dates are stored as their canonical strings so
// the documents stay timezone-free.
type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection("booking_history")}
}

func (r *HistoryRepository) Append(ctx context.Context, b *domainbooking.Booking) error {
	_, err := r.col.InsertOne(ctx, newHistoryDocument(b))
	return err
}

func (r *HistoryRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booked_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc historyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

var _ domainbooking.History = (*HistoryRepository)(nil)

type historyDocument struct {
	ID            string `bson:"_id"`
	ReferenceCode string `bson:"reference_code"`
	CarID         string `bson:"car_id"`
	GuestID       string `bson:"guest_id"`
	StartDate     string `bson:"start_date"`
	EndDate       string `bson:"end_date"`
	TotalAmount   int64  `bson:"total_amount"`
	TotalCurrency string `bson:"total_currency"`
	Status        string `bson:"status"`
	BookedAt      int64  `bson:"booked_at"`
}

func newHistoryDocument(b *domainbooking.Booking) historyDocument {
	return historyDocument{
		ID:            string(b.ID),
		ReferenceCode: b.ReferenceCode,
		CarID:         b.CarID,
		GuestID:       b.GuestID,
		StartDate:     b.StartDate.String(),
		EndDate:       b.EndDate.String(),
		TotalAmount:   b.TotalPrice.Amount,
		TotalCurrency: b.TotalPrice.Currency,
		Status:        string(b.Status),
		BookedAt:      b.BookedAt.UnixMilli(),
	}
}

func (d historyDocument) toAggregate() (*domainbooking.Booking, error) {
	start, err := dates.Parse(d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dates.Parse(d.EndDate)
	if err != nil {
		return nil, err
	}
	total, err := money.New(d.TotalAmount, d.TotalCurrency)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:            domainbooking.BookingID(d.ID),
		ReferenceCode: d.ReferenceCode,
		CarID:         d.CarID,
		GuestID:       d.GuestID,
		StartDate:     start,
		EndDate:       end,
		TotalPrice:    total,
		Status:        domainbooking.Status(d.Status),
		BookedAt:      time.UnixMilli(d.BookedAt).UTC(),
	}, nil
}
