package repository

import (
	"context"
	"database/sql"
	"time"

	"bookinglink/core/database"
	"bookinglink/core/logger"
	"bookinglink/modules/calendar/entity"

	"github.com/google/uuid"
)

// ConnectionRepository is the credential store: one row per owner, sealed
// token material, looked up by owner id or public slug.
type ConnectionRepository interface {
	GetValidBySlug(ctx context.Context, slug string) (*entity.CalendarConnection, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.CalendarConnection, error)
	Upsert(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, sealedAccessToken string, expiresAt time.Time) error
	UpdateSettings(ctx context.Context, slug, timezone, businessStart, businessEnd string, slotDurationMinutes int) (bool, error)
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

type connectionRepository struct {
	db database.IDatabase
}

func NewConnectionRepository(db database.IDatabase) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `
	id, owner_id, slug, provider, email, access_token, refresh_token,
	token_expires_at, timezone, business_hours_start, business_hours_end,
	slot_duration_minutes, is_valid, connected_at, created_at, updated_at
`

// GetValidBySlug returns the connection behind a booking page. Invalidated
// connections are excluded from every availability and booking read.
func (r *connectionRepository) GetValidBySlug(ctx context.Context, slug string) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE slug = $1 AND is_valid = true
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ConnectionRepository:GetValidBySlug:Error", "error", err, "slug", slug)
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE owner_id = $1
	`
	var conn entity.CalendarConnection
	if err := r.db.GetContext(ctx, &conn, query, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ConnectionRepository:GetByOwnerID:Error", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return &conn, nil
}

// Upsert creates or replaces the connection keyed by owner_id. The slug is
// only written on first creation: reconnecting keeps the published booking
// URL stable.
func (r *connectionRepository) Upsert(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections
			(owner_id, slug, provider, email, access_token, refresh_token,
			 token_expires_at, timezone, business_hours_start, business_hours_end,
			 slot_duration_minutes, is_valid, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, NOW())
		ON CONFLICT (owner_id) DO UPDATE
		   SET provider         = EXCLUDED.provider,
		       email            = EXCLUDED.email,
		       access_token     = EXCLUDED.access_token,
		       refresh_token    = EXCLUDED.refresh_token,
		       token_expires_at = EXCLUDED.token_expires_at,
		       timezone         = EXCLUDED.timezone,
		       is_valid         = true,
		       connected_at     = NOW(),
		       updated_at       = NOW()
		RETURNING id, slug, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		conn.OwnerID, conn.Slug, conn.Provider, conn.Email,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt,
		conn.Timezone, conn.BusinessHoursStart, conn.BusinessHoursEnd,
		conn.SlotDurationMinutes,
	).Scan(&conn.ID, &conn.Slug, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("ConnectionRepository:Upsert:Error", "error", err, "owner_id", conn.OwnerID)
		return nil, err
	}
	return conn, nil
}

// UpdateTokens persists a refreshed access token and expiry. The refresh
// token is untouched; a refresh never rotates it here.
func (r *connectionRepository) UpdateTokens(ctx context.Context, id uuid.UUID, sealedAccessToken string, expiresAt time.Time) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, token_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	if err := r.db.ExecContext(ctx, query, sealedAccessToken, expiresAt, id); err != nil {
		logger.Error("ConnectionRepository:UpdateTokens:Error", "error", err, "id", id)
		return err
	}
	return nil
}

func (r *connectionRepository) UpdateSettings(ctx context.Context, slug, timezone, businessStart, businessEnd string, slotDurationMinutes int) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE calendar_connections
		SET timezone = :timezone,
		    business_hours_start = :business_hours_start,
		    business_hours_end = :business_hours_end,
		    slot_duration_minutes = :slot_duration_minutes,
		    updated_at = NOW()
		WHERE slug = :slug AND is_valid = true
	`, map[string]any{
		"timezone":              timezone,
		"business_hours_start":  businessStart,
		"business_hours_end":    businessEnd,
		"slot_duration_minutes": slotDurationMinutes,
		"slug":                  slug,
	})
	if err != nil {
		logger.Error("ConnectionRepository:UpdateSettings:Error", "error", err, "slug", slug)
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Invalidate soft-deletes the connection; the owner must re-authorize.
func (r *connectionRepository) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	query := `
		UPDATE calendar_connections
		SET is_valid = false, updated_at = NOW()
		WHERE owner_id = $1
	`
	if err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		logger.Error("ConnectionRepository:Invalidate:Error", "error", err, "owner_id", ownerID)
		return err
	}
	return nil
}
