package booking

import (
	"context"
	"regexp"
	"time"

	"bhraman/apperr"
	"bhraman/db"
	"bhraman/models"
	"bhraman/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists bookings.
type Store interface {
	Insert(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, id string, p Patch) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]models.Booking, int64, error)
	Stats(ctx context.Context) (models.BookingStats, error)
}

// Patch lists the fields to change; nil means unchanged.
type Patch struct {
	Status          *models.BookingStatus
	PaymentStatus   *models.PaymentStatus
	PaymentID       *string
	StartDate       *time.Time
	ContactInfo     *models.ContactInfo
	SpecialRequests *string
	UpdatedAt       time.Time
}

type Filter struct {
	UserID        string
	Status        models.BookingStatus
	PaymentStatus models.PaymentStatus
	utils.QueryOptions
}

type MongoStore struct {
	pool *db.Pool
}

func NewMongoStore(pool *db.Pool) *MongoStore {
	return &MongoStore{pool: pool}
}

func (s *MongoStore) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := s.pool.Collection(ctx, db.BookingsCollection)
	if err != nil {
		return nil, apperr.Upstream("bookings collection", err)
	}
	return c, nil
}

func (s *MongoStore) Insert(ctx context.Context, b *models.Booking) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, b); err != nil {
		return apperr.Upstream("insert booking", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var b models.Booking
	if err := c.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("booking")
		}
		return nil, apperr.Upstream("find booking", err)
	}
	return &b, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p Patch) (*models.Booking, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		set["paymentStatus"] = *p.PaymentStatus
	}
	if p.PaymentID != nil {
		set["paymentId"] = *p.PaymentID
	}
	if p.StartDate != nil {
		set["startDate"] = *p.StartDate
	}
	if p.ContactInfo != nil {
		set["contactInfo"] = *p.ContactInfo
	}
	if p.SpecialRequests != nil {
		set["specialRequests"] = *p.SpecialRequests
	}
	if !p.UpdatedAt.IsZero() {
		set["updatedAt"] = p.UpdatedAt
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var b models.Booking
	err = c.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("booking")
		}
		return nil, apperr.Upstream("update booking", err)
	}
	return &b, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	res, err := c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return apperr.Upstream("delete booking", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("booking")
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Booking, int64, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"contactInfo.name": rx},
			bson.M{"contactInfo.email": rx},
			bson.M{"contactInfo.phone": rx},
		}
	}

	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Upstream("count bookings", err)
	}
	cur, err := c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip()).
		SetLimit(int64(f.Limit)))
	if err != nil {
		return nil, 0, apperr.Upstream("list bookings", err)
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Upstream("decode bookings", err)
	}
	return out, total, nil
}

type countRow struct {
	Key    string  `bson:"_id"`
	Count  int64   `bson:"count"`
	Amount float64 `bson:"amount"`
}

func (s *MongoStore) group(ctx context.Context, c *mongo.Collection, field string) ([]countRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    "$" + field,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$totalAmount"},
		}}},
	}
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Upstream("aggregate bookings by "+field, err)
	}
	defer cur.Close(ctx)

	var rows []countRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Upstream("decode booking stats", err)
	}
	return rows, nil
}

func (s *MongoStore) Stats(ctx context.Context) (models.BookingStats, error) {
	stats := models.NewBookingStats()
	c, err := s.coll(ctx)
	if err != nil {
		return stats, err
	}

	byStatus, err := s.group(ctx, c, "status")
	if err != nil {
		return stats, err
	}
	for _, row := range byStatus {
		stats.ByStatus[models.BookingStatus(row.Key)] = row.Count
		stats.Total += row.Count
	}

	byPayment, err := s.group(ctx, c, "paymentStatus")
	if err != nil {
		return stats, err
	}
	for _, row := range byPayment {
		ps := models.PaymentStatus(row.Key)
		stats.ByPaymentStatus[ps] = row.Count
		if ps == models.PaymentCompleted {
			stats.Revenue = row.Amount
		}
	}
	return stats, nil
}
