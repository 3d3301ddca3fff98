package repository

import (
	"context"
	"database/sql"
	"time"

	"bookinglink/core/database"
	"bookinglink/core/logger"
)

// OAuthStateRepository stores the anti-forgery state issued when an owner is
// sent to the provider's consent screen. States are single-use.
type OAuthStateRepository interface {
	Save(ctx context.Context, state string, expiresAt time.Time) error
	// Consume deletes the state and reports whether it existed and was still
	// unexpired. A second call for the same state returns false.
	Consume(ctx context.Context, state string) (bool, error)
	CleanupExpired(ctx context.Context) error
}

type oauthStateRepository struct {
	db database.IDatabase
}

func NewOAuthStateRepository(db database.IDatabase) OAuthStateRepository {
	return &oauthStateRepository{db: db}
}

func (r *oauthStateRepository) Save(ctx context.Context, state string, expiresAt time.Time) error {
	query := `
		INSERT INTO oauth_states (state, expires_at)
		VALUES ($1, $2)
	`
	if err := r.db.ExecContext(ctx, query, state, expiresAt); err != nil {
		logger.Error("OAuthStateRepository:Save:Error", "error", err)
		return err
	}
	return nil
}

func (r *oauthStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, state).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		logger.Error("OAuthStateRepository:Consume:Error", "error", err)
		return false, err
	}
	return true, nil
}

func (r *oauthStateRepository) CleanupExpired(ctx context.Context) error {
	query := `DELETE FROM oauth_states WHERE expires_at <= NOW()`
	if err := r.db.ExecContext(ctx, query); err != nil {
		logger.Error("OAuthStateRepository:CleanupExpired:Error", "error", err)
		return err
	}
	return nil
}
