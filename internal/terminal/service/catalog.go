package service

import (
	"context"
	"sync"

	"github.com/bancosur/corresponsal/internal/terminal/domain"
	"github.com/bancosur/corresponsal/pkg/corebank"
)

// CatalogService fetches reference data once per session and caches it for
// the flows' selectors.
type CatalogService struct {
	Gateway Gateway

	mu     sync.Mutex
	cached *domain.Catalogs
}

// Get returns the session's catalogs, fetching them on first use.
func (s *CatalogService) Get(ctx context.Context) (domain.Catalogs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	remote, err := s.Gateway.Catalogs(ctx)
	if err != nil {
		return domain.Catalogs{}, err
	}

	catalogs := domain.Catalogs{
		IdentificationTypes: mapEntries(remote.IdentificationTypes),
		Countries:           mapEntries(remote.Countries),
		MaritalStatuses:     mapEntries(remote.MaritalStatuses),
		AlertTypes:          mapEntries(remote.AlertTypes),
	}
	s.cached = &catalogs
	return catalogs, nil
}

// Invalidate drops the cache. Called on login and logout so the next session
// fetches fresh data.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func mapEntries(in []corebank.CatalogEntry) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, 0, len(in))
	for _, e := range in {
		out = append(out, domain.CatalogEntry{Code: e.Code, Name: e.Name})
	}
	return out
}
