package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and lookup indexes every store relies on.
func EnsureIndexes(ctx context.Context, p *Pool) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
			{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_external_id")},
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email_if_present").
					SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
			},
			{
				Keys: bson.D{{Key: "phone", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_phone_if_present").
					SetPartialFilterExpression(bson.M{"phone": bson.M{"$type": "string"}}),
			},
		},
		PackagesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_slug")},
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("featured_recent")},
		},
		BookingsCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("user_recent")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "paymentStatus", Value: 1}}, Options: options.Index().SetName("status_payment")},
		},
	}

	for name, models := range specs {
		coll, err := p.Collection(ctx, name)
		if err != nil {
			return err
		}
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
