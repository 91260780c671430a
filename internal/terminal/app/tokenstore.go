package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bancosur/corresponsal/internal/terminal/store"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/cryptox"
)

// sealedTokenStore backs the gateway's TokenStore with the local database,
// sealing the bearer token before it touches disk.
type sealedTokenStore struct {
	store store.Store
}

var _ corebank.TokenStore = (*sealedTokenStore)(nil)

func (s *sealedTokenStore) Token(ctx context.Context) (string, error) {
	sealed, err := s.store.Credentials().GetToken(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := cryptox.OpenToken(sealed)
	if err != nil {
		// A token sealed under a different device secret is unreadable;
		// treat it as absent so the agent just logs in again.
		return "", nil
	}
	return token, nil
}

func (s *sealedTokenStore) Save(ctx context.Context, token string) error {
	sealed, err := cryptox.SealToken(token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}
	return s.store.Credentials().SaveToken(ctx, sealed)
}

func (s *sealedTokenStore) Delete(ctx context.Context) error {
	return s.store.Credentials().DeleteToken(ctx)
}
