package sqlite

import (
	"context"
	"time"
)

// credentialsRepo stores the single sealed bearer credential in a one-row
// table.
type credentialsRepo struct {
	db queryer
}

func (r *credentialsRepo) GetToken(ctx context.Context) ([]byte, error) {
	var sealed []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT sealed_token FROM credentials WHERE id = 1`,
	).Scan(&sealed)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return sealed, nil
}

func (r *credentialsRepo) SaveToken(ctx context.Context, sealed []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (id, sealed_token, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			sealed_token = excluded.sealed_token,
			updated_at = excluded.updated_at`,
		sealed, time.Now().UTC(),
	)
	return err
}

func (r *credentialsRepo) DeleteToken(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`)
	return err
}
