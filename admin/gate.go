package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"bhraman/apperr"
	"bhraman/auth"
	"bhraman/globals"
	"bhraman/models"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

// Directory is the part of the user directory the gate consults.
type Directory interface {
	ByExternalID(ctx context.Context, externalID string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// Gate decides per request whether the caller may use admin operations.
// Every admin is fully privileged; the permissions list is not consulted.
type Gate struct {
	provider auth.Provider
	dir      Directory
	now      func() time.Time
}

func NewGate(provider auth.Provider, dir Directory) *Gate {
	return &Gate{provider: provider, dir: dir, now: time.Now}
}

// Authorize resolves the caller and checks the admin role. It never writes
// anything except lastLogin on success.
func (g *Gate) Authorize(r *http.Request) (*models.User, error) {
	id := globals.IdentityFrom(r.Context())
	if id == nil {
		var err error
		if id, err = g.provider.Identify(r); err != nil {
			return nil, apperr.Unauthorized("authentication required")
		}
	}

	u, err := g.dir.ByExternalID(r.Context(), id.ExternalID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Forbidden("admin access required")
		}
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, apperr.Forbidden("admin access required")
	}

	now := g.now()
	if err := g.dir.TouchLastLogin(r.Context(), u.ID, now); err != nil {
		log.Printf("[AdminGate] could not record last login user=%s err=%v", u.ID, err)
	} else {
		u.LastLogin = now
	}
	return u, nil
}

// RequireAdmin rejects the request before next runs unless the caller is an admin.
func (g *Gate) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		u, err := g.Authorize(r)
		if err != nil {
			if apperr.IsForbidden(err) {
				log.Printf("[AdminGate] denied %s %s", r.Method, r.URL.Path)
			}
			utils.RespondError(w, r, err)
			return
		}
		ctx := globals.WithUser(r.Context(), u)
		if globals.IdentityFrom(ctx) == nil {
			ctx = globals.WithIdentity(ctx, &auth.Identity{ExternalID: u.ExternalID, Email: u.Email, Name: u.Name})
		}
		next(w, r.WithContext(ctx), ps)
	}
}
