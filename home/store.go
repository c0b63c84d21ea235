package home

import (
	"context"
	"time"

	"bhraman/apperr"
	"bhraman/db"
	"bhraman/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists the singleton site content document.
type Store interface {
	// Get returns a NotFoundError before the document is first created.
	Get(ctx context.Context) (*models.HomeConfig, error)
	// Insert returns a ConflictError when the document already exists.
	Insert(ctx context.Context, c *models.HomeConfig) error
	// SetSections overwrites only the named top-level sections.
	SetSections(ctx context.Context, sections map[string]any, updatedAt time.Time) (*models.HomeConfig, error)
}

type MongoStore struct {
	pool *db.Pool
}

func NewMongoStore(pool *db.Pool) *MongoStore {
	return &MongoStore{pool: pool}
}

func (s *MongoStore) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := s.pool.Collection(ctx, db.HomeConfigCollection)
	if err != nil {
		return nil, apperr.Upstream("homeconfig collection", err)
	}
	return c, nil
}

func (s *MongoStore) Get(ctx context.Context) (*models.HomeConfig, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var cfg models.HomeConfig
	if err := c.FindOne(ctx, bson.M{"_id": models.HomeConfigKey}).Decode(&cfg); err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("home config")
		}
		return nil, apperr.Upstream("find home config", err)
	}
	return &cfg, nil
}

func (s *MongoStore) Insert(ctx context.Context, cfg *models.HomeConfig) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	cfg.ID = models.HomeConfigKey
	if _, err := c.InsertOne(ctx, cfg); err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.ConflictError{Resource: "home config", Msg: "already exists", Err: err}
		}
		return apperr.Upstream("insert home config", err)
	}
	return nil
}

func (s *MongoStore) SetSections(ctx context.Context, sections map[string]any, updatedAt time.Time) (*models.HomeConfig, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": updatedAt}
	for k, v := range sections {
		set[k] = v
	}

	var cfg models.HomeConfig
	err = c.FindOneAndUpdate(ctx, bson.M{"_id": models.HomeConfigKey}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cfg)
	if err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("home config")
		}
		return nil, apperr.Upstream("update home config", err)
	}
	return &cfg, nil
}
