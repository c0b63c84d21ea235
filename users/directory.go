package users

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"bhraman/apperr"
	"bhraman/auth"
	"bhraman/globals"
	"bhraman/models"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

// Directory maps provider identities to application users.
type Directory struct {
	store Store
	now   func() time.Time
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store, now: time.Now}
}

// Resolve returns the user for id, creating a plain user on first sight.
func (d *Directory) Resolve(ctx context.Context, id *auth.Identity) (*models.User, error) {
	if id == nil || id.ExternalID == "" {
		return nil, apperr.Unauthorized("authentication required")
	}

	u, err := d.store.FindByExternalID(ctx, id.ExternalID)
	if err == nil {
		return u, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	now := d.now()
	email := strings.ToLower(strings.TrimSpace(id.Email))
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u = &models.User{
		ID:          utils.GetUUID(),
		ExternalID:  id.ExternalID,
		Email:       email,
		Name:        name,
		Role:        models.RoleUser,
		Permissions: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.store.Insert(ctx, u); err != nil {
		if apperr.IsConflict(err) {
			// a concurrent request created it first
			if existing, ferr := d.store.FindByExternalID(ctx, id.ExternalID); ferr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	log.Printf("[users] created user id=%s external_id=%s", u.ID, u.ExternalID)
	return u, nil
}

// ByExternalID looks a user up without creating one.
func (d *Directory) ByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return d.store.FindByExternalID(ctx, externalID)
}

func (d *Directory) Get(ctx context.Context, id string) (*models.User, error) {
	return d.store.FindByID(ctx, id)
}

func (d *Directory) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := d.store.Update(ctx, id, Patch{LastLogin: &at})
	return err
}

type ProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (d *Directory) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*models.User, error) {
	p := Patch{UpdatedAt: d.now()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "must not be empty")
		}
		p.Name = &name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !utils.ValidPhone(phone) {
			return nil, apperr.Invalid("phone", "must contain at least 10 digits")
		}
		p.Phone = &phone
	}
	return d.store.Update(ctx, id, p)
}

// SetRole promotes or demotes a user.
func (d *Directory) SetRole(ctx context.Context, id string, role string) (*models.User, error) {
	r := models.Role(strings.TrimSpace(role))
	if !r.Valid() {
		return nil, apperr.Invalid("role", "must be one of user, admin")
	}
	u, err := d.store.Update(ctx, id, Patch{Role: &r, UpdatedAt: d.now()})
	if err != nil {
		return nil, err
	}
	log.Printf("[users] role changed id=%s role=%s", id, r)
	return u, nil
}

func (d *Directory) List(ctx context.Context, f Filter) ([]models.User, int64, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, 0, apperr.Invalid("role", "must be one of user, admin")
	}
	return d.store.List(ctx, f)
}

// RequireUser resolves (or lazily creates) the caller's user record for
// customer routes. It must run after middleware.Authenticate.
func (d *Directory) RequireUser(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		u, err := d.Resolve(r.Context(), globals.IdentityFrom(r.Context()))
		if err != nil {
			utils.RespondError(w, r, err)
			return
		}
		next(w, r.WithContext(globals.WithUser(r.Context(), u)), ps)
	}
}

func (d *Directory) Count(ctx context.Context) (int64, error) {
	return d.store.Count(ctx)
}
