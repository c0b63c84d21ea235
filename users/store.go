package users

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

// Store persists users.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id string, p Patch) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, f Filter) ([]models.User, int64, error)
}

// Patch lists the fields to change; nil means unchanged. An empty Phone
// removes the phone number.
type Patch struct {
	Name        *string
	Email       *string
	Phone       *string
	Role        *models.Role
	Permissions []string
	LastLogin   *time.Time
	UpdatedAt   time.Time
}

type Filter struct {
	Role models.Role
	utils.QueryOptions
}

type MongoStore struct {
	pool *db.Pool
}

func NewMongoStore(pool *db.Pool) *MongoStore {
	return &MongoStore{pool: pool}
}

func (s *MongoStore) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := s.pool.Collection(ctx, db.UsersCollection)
	if err != nil {
		return nil, apperr.Upstream("users collection", err)
	}
	return c, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := c.FindOne(ctx, filter).Decode(&u); err != nil {
		if db.IsNoDocuments(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Upstream("find user", err)
	}
	return &u, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *MongoStore) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"externalId": externalID})
}

func (s *MongoStore) Insert(ctx context.Context, u *models.User) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, u); err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.ConflictError{Resource: "user", Msg: "account already registered", Err: err}
		}
		return apperr.Upstream("insert user", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p Patch) (*models.User, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	unset := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		if *p.Phone == "" {
			unset["phone"] = ""
		} else {
			set["phone"] = *p.Phone
		}
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.Permissions != nil {
		set["permissions"] = p.Permissions
	}
	if p.LastLogin != nil {
		set["lastLogin"] = *p.LastLogin
	}
	if !p.UpdatedAt.IsZero() {
		set["updatedAt"] = p.UpdatedAt
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return s.FindByID(ctx, id)
	}

	var u models.User
	err = c.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	switch {
	case db.IsNoDocuments(err):
		return nil, apperr.NotFound("user")
	case db.IsDuplicateKey(err):
		return nil, apperr.ConflictError{Resource: "user", Msg: "email or phone already in use", Err: err}
	case err != nil:
		return nil, apperr.Upstream("update user", err)
	}
	return &u, nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.User, int64, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Search != "" {
		rx := searchRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
			bson.M{"phone": rx},
		}
	}

	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Upstream("count users", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip()).
		SetLimit(int64(f.Limit))
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Upstream("list users", err)
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Upstream("decode users", err)
	}
	return out, total, nil
}

func searchRegex(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return 0, err
	}
	n, err := c.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, apperr.Upstream("count users", err)
	}
	return n, nil
}
