package service

import (
	"context"
	"time"

	"bookinglink/core/crypto"
	"bookinglink/core/errors"
	"bookinglink/core/logger"
	"bookinglink/core/metric"
	"bookinglink/modules/calendar/entity"
	"bookinglink/modules/calendar/provider"
	"bookinglink/modules/calendar/repository"

	"golang.org/x/sync/singleflight"
)

// TokenManager hands out a usable plaintext access token for a connection,
// refreshing against the provider when the stored one has expired.
type TokenManager interface {
	EnsureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, *errors.AppError)
}

type tokenManager struct {
	connectionRepo repository.ConnectionRepository
	provider       provider.CalendarProvider
	cipher         *crypto.Cipher
	group          singleflight.Group
	now            func() time.Time
}

func NewTokenManager(connectionRepo repository.ConnectionRepository, prov provider.CalendarProvider, cipher *crypto.Cipher) TokenManager {
	return &tokenManager{
		connectionRepo: connectionRepo,
		provider:       prov,
		cipher:         cipher,
		now:            time.Now,
	}
}

// EnsureValidToken returns the stored access token when its expiry is
// strictly in the future, otherwise refreshes first. Concurrent callers for
// the same connection share one refresh; a missing expiry is treated as
// expired. On refresh failure the stored row is left unchanged.
func (m *tokenManager) EnsureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, *errors.AppError) {
	if conn.TokenExpiresAt != nil && m.now().Before(*conn.TokenExpiresAt) {
		token, err := m.cipher.Open(conn.AccessToken)
		if err != nil {
			logger.Error("TokenManager:EnsureValidToken:OpenFailed", "error", err, "connection_id", conn.ID)
			return "", errors.NewAppError(errors.ErrInternalServer, "Failed to read stored credentials", err)
		}
		return token, nil
	}

	result, err, _ := m.group.Do(conn.ID.String(), func() (any, error) {
		return m.refresh(ctx, conn)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return "", appErr
		}
		return "", errors.NewAppError(errors.ErrInternalServer, "Token refresh failed", err)
	}
	return result.(string), nil
}

func (m *tokenManager) refresh(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	logger.Info("TokenManager:Refresh:Start", "connection_id", conn.ID, "provider", m.provider.Name())

	refreshToken, err := m.cipher.Open(conn.RefreshToken)
	if err != nil {
		logger.Error("TokenManager:Refresh:OpenRefreshFailed", "error", err, "connection_id", conn.ID)
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to read stored credentials", err)
	}

	accessToken, expiresAt, err := m.provider.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		metric.UpstreamFailures.Inc()
		logger.Error("TokenManager:Refresh:ProviderFailed", "error", err, "connection_id", conn.ID)
		return "", errors.NewAppError(errors.ErrUpstream, "Calendar provider rejected the token refresh", err)
	}

	sealed, err := m.cipher.Seal(accessToken)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to seal refreshed token", err)
	}
	if err := m.connectionRepo.UpdateTokens(ctx, conn.ID, sealed, expiresAt); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to persist refreshed token", err)
	}

	conn.AccessToken = sealed
	conn.TokenExpiresAt = &expiresAt
	metric.TokenRefreshes.Inc()
	logger.Info("TokenManager:Refresh:Success", "connection_id", conn.ID, "expires_at", expiresAt)
	return accessToken, nil
}
