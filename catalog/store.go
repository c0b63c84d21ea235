package catalog

import (
	"context"
	"regexp"

	"bhraman/apperr"
	"bhraman/db"
	"bhraman/models"
	"bhraman/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists packages.
type Store interface {
	Insert(ctx context.Context, p *models.Package) error
	FindByID(ctx context.Context, id string) (*models.Package, error)
	FindBySlug(ctx context.Context, slug string) (*models.Package, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Replace(ctx context.Context, p *models.Package) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, f Filter) ([]models.Package, int64, error)
}

type Filter struct {
	Featured *bool
	utils.QueryOptions
}

type MongoStore struct {
	pool *db.Pool
}

func NewMongoStore(pool *db.Pool) *MongoStore {
	return &MongoStore{pool: pool}
}

func (s *MongoStore) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := s.pool.Collection(ctx, db.PackagesCollection)
	if err != nil {
		return nil, apperr.Upstream("packages collection", err)
	}
	return c, nil
}

func (s *MongoStore) Insert(ctx context.Context, p *models.Package) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, p); err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.ConflictError{Resource: "package", Msg: "slug already taken", Err: err}
		}
		return apperr.Upstream("insert package", err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Package, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var p models.Package
	if err := c.FindOne(ctx, filter).Decode(&p); err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("package")
		}
		return nil, apperr.Upstream("find package", err)
	}
	return &p, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Package, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *MongoStore) FindBySlug(ctx context.Context, slug string) (*models.Package, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return false, err
	}
	n, err := c.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Upstream("check slug", err)
	}
	return n > 0, nil
}

func (s *MongoStore) Replace(ctx context.Context, p *models.Package) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	res, err := c.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return apperr.Upstream("replace package", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("package")
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	res, err := c.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return apperr.Upstream("delete package", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("package")
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Package, int64, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"location": rx},
			bson.M{"shortDescription": rx},
		}
	}

	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Upstream("count packages", err)
	}
	cur, err := c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip()).
		SetLimit(int64(f.Limit)))
	if err != nil {
		return nil, 0, apperr.Upstream("list packages", err)
	}
	defer cur.Close(ctx)

	var out []models.Package
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Upstream("decode packages", err)
	}
	return out, total, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return 0, err
	}
	n, err := c.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, apperr.Upstream("count packages", err)
	}
	return n, nil
}
