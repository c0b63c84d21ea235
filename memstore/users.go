package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"bhraman/apperr"
	"bhraman/models"
	"bhraman/users"
)

type Users struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

func NewUsers() *Users {
	return &Users{byID: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Permissions = slices.Clone(u.Permissions)
	return &c
}

// conflict enforces the unique indexes the mongo store declares.
func (s *Users) conflict(u *models.User) error {
	for id, other := range s.byID {
		if id == u.ID {
			continue
		}
		switch {
		case other.ExternalID == u.ExternalID:
			return apperr.ConflictError{Resource: "user", Msg: "account already registered"}
		case u.Email != "" && other.Email == u.Email:
			return apperr.ConflictError{Resource: "user", Msg: "email or phone already in use"}
		case u.Phone != "" && other.Phone == u.Phone:
			return apperr.ConflictError{Resource: "user", Msg: "email or phone already in use"}
		}
	}
	return nil
}

func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return cloneUser(u), nil
}

func (s *Users) FindByExternalID(_ context.Context, externalID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.ExternalID == externalID {
			return cloneUser(u), nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (s *Users) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; ok {
		return apperr.ConflictError{Resource: "user", Msg: "account already registered"}
	}
	if err := s.conflict(u); err != nil {
		return err
	}
	s.byID[u.ID] = cloneUser(u)
	return nil
}

func (s *Users) Update(_ context.Context, id string, p users.Patch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	next := cloneUser(cur)
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Phone != nil {
		next.Phone = *p.Phone
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.Permissions != nil {
		next.Permissions = slices.Clone(p.Permissions)
	}
	if p.LastLogin != nil {
		next.LastLogin = *p.LastLogin
	}
	if !p.UpdatedAt.IsZero() {
		next.UpdatedAt = p.UpdatedAt
	}
	if err := s.conflict(next); err != nil {
		return nil, err
	}
	s.byID[id] = next
	return cloneUser(next), nil
}

func (s *Users) List(_ context.Context, f users.Filter) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, u := range s.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !matchesAny(f.Search, u.Name, u.Email, u.Phone) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	newestFirst(out, func(u models.User) time.Time { return u.CreatedAt })
	return page(out, f.QueryOptions), int64(len(out)), nil
}

// Count is used by the dashboard.
func (s *Users) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}
