// Package migrate folds the legacy admins collection into users. It runs
// once from cmd/migrate-admins and is not linked into the server.
package migrate

import (
	"context"
	"log"
	"slices"
	"strings"
	"time"

	"bhraman/apperr"
	"bhraman/db"
	"bhraman/models"
	"bhraman/users"
	"bhraman/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// LegacyAdmin is a document from the old admins collection.
type LegacyAdmin struct {
	ExternalID  string    `bson:"externalId"`
	Email       string    `bson:"email"`
	Name        string    `bson:"name"`
	Permissions []string  `bson:"permissions"`
	LastLogin   time.Time `bson:"lastLogin"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type Source interface {
	LegacyAdmins(ctx context.Context) ([]LegacyAdmin, error)
}

// Result counts what a run did.
type Result struct {
	Scanned  int
	Promoted int
	Created  int
	Skipped  int
}

// Run makes every legacy admin an admin user, keyed by external id. Running
// it again finds the same users and only rewrites their role, so it never
// creates duplicates.
func Run(ctx context.Context, src Source, dst users.Store, now time.Time) (Result, error) {
	var res Result
	admins, err := src.LegacyAdmins(ctx)
	if err != nil {
		return res, err
	}

	role := models.RoleAdmin
	for _, a := range admins {
		res.Scanned++
		extID := strings.TrimSpace(a.ExternalID)
		if extID == "" {
			log.Printf("[migrate] skipping legacy admin without external id email=%s", a.Email)
			res.Skipped++
			continue
		}
		email := strings.ToLower(strings.TrimSpace(a.Email))
		perms := a.Permissions
		if perms == nil {
			perms = []string{}
		}

		u, err := dst.FindByExternalID(ctx, extID)
		switch {
		case err == nil:
			p := users.Patch{Role: &role, Permissions: perms, UpdatedAt: now}
			if u.Name == "" && a.Name != "" {
				p.Name = &a.Name
			}
			if u.Email == "" && email != "" {
				p.Email = &email
			}
			if u.LastLogin.IsZero() && !a.LastLogin.IsZero() {
				p.LastLogin = &a.LastLogin
			}
			if u.Role == models.RoleAdmin && slices.Equal(u.Permissions, perms) && p.Name == nil && p.Email == nil {
				res.Skipped++
				continue
			}
			if _, err := dst.Update(ctx, u.ID, p); err != nil {
				return res, err
			}
			log.Printf("[migrate] promoted user id=%s external_id=%s", u.ID, extID)
			res.Promoted++

		case apperr.IsNotFound(err):
			created := a.CreatedAt
			if created.IsZero() {
				created = now
			}
			name := strings.TrimSpace(a.Name)
			if name == "" {
				name, _, _ = strings.Cut(email, "@")
			}
			nu := &models.User{
				ID:          utils.GetUUID(),
				ExternalID:  extID,
				Email:       email,
				Name:        name,
				Role:        models.RoleAdmin,
				Permissions: perms,
				LastLogin:   a.LastLogin,
				CreatedAt:   created,
				UpdatedAt:   now,
			}
			if err := dst.Insert(ctx, nu); err != nil {
				return res, err
			}
			log.Printf("[migrate] created admin user id=%s external_id=%s", nu.ID, extID)
			res.Created++

		default:
			return res, err
		}
	}
	return res, nil
}

// MongoSource reads the legacy collection.
type MongoSource struct {
	pool *db.Pool
}

func NewMongoSource(pool *db.Pool) *MongoSource {
	return &MongoSource{pool: pool}
}

func (s *MongoSource) LegacyAdmins(ctx context.Context) ([]LegacyAdmin, error) {
	c, err := s.pool.Collection(ctx, db.LegacyAdminsCollection)
	if err != nil {
		return nil, apperr.Upstream("admins collection", err)
	}
	cur, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Upstream("list legacy admins", err)
	}
	defer cur.Close(ctx)

	var out []LegacyAdmin
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Upstream("decode legacy admins", err)
	}
	return out, nil
}
