package memstore

import (
	"context"
	"slices"
	"sync"

	"bhraman/migrate"
)

// LegacyAdmins is a fixed list of documents from the old admins collection.
type LegacyAdmins struct {
	mu     sync.Mutex
	admins []migrate.LegacyAdmin
}

func NewLegacyAdmins(admins ...migrate.LegacyAdmin) *LegacyAdmins {
	return &LegacyAdmins{admins: admins}
}

func (s *LegacyAdmins) LegacyAdmins(_ context.Context) ([]migrate.LegacyAdmin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.admins), nil
}
