package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bookinglink/core/config"
	"bookinglink/core/constants"
	"bookinglink/core/crypto"
	"bookinglink/core/errors"
	"bookinglink/core/logger"
	"bookinglink/core/utils"
	"bookinglink/modules/auth/repository"
	calentity "bookinglink/modules/calendar/entity"
	"bookinglink/modules/calendar/provider"
	calrepository "bookinglink/modules/calendar/repository"

	"github.com/google/uuid"
)

// AuthService runs the OAuth onboarding flow: consent redirect out, callback
// in, connection row upserted with sealed tokens.
type AuthService interface {
	GetAuthURL(ctx context.Context, providerName string) (string, *errors.AppError)
	HandleCallback(ctx context.Context, providerName, code, state string) (string, *errors.AppError)
}

type authService struct {
	stateRepo      repository.OAuthStateRepository
	connectionRepo calrepository.ConnectionRepository
	connector      provider.OAuthConnector
	cipher         *crypto.Cipher
}

func NewAuthService(stateRepo repository.OAuthStateRepository, connectionRepo calrepository.ConnectionRepository, connector provider.OAuthConnector, cipher *crypto.Cipher) AuthService {
	return &authService{
		stateRepo:      stateRepo,
		connectionRepo: connectionRepo,
		connector:      connector,
		cipher:         cipher,
	}
}

// GetAuthURL issues a fresh owner id as the OAuth state and returns the
// provider consent URL carrying it.
func (s *authService) GetAuthURL(ctx context.Context, providerName string) (string, *errors.AppError) {
	if appErr := s.checkProvider(providerName); appErr != nil {
		return "", appErr
	}

	state := uuid.New().String()
	if err := s.stateRepo.Save(ctx, state, time.Now().Add(constants.OAuthStateTTL)); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to start authorization", err)
	}

	// Opportunistic cleanup keeps the table from accumulating dead states.
	if err := s.stateRepo.CleanupExpired(ctx); err != nil {
		logger.Warn("AuthService:GetAuthURL:CleanupFailed", "error", err)
	}

	logger.Info("AuthService:GetAuthURL:Issued", "provider", providerName, "state", state)
	return s.connector.AuthCodeURL(state), nil
}

// HandleCallback finishes the flow: verifies the state, exchanges the code,
// resolves the owner's identity and stores the connection. Returns the URL
// the browser should be redirected to.
func (s *authService) HandleCallback(ctx context.Context, providerName, code, state string) (string, *errors.AppError) {
	if appErr := s.checkProvider(providerName); appErr != nil {
		return "", appErr
	}
	if code == "" || state == "" {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Missing code or state parameter", nil)
	}
	ownerID, err := uuid.Parse(state)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Malformed state parameter", err)
	}

	ok, err := s.stateRepo.Consume(ctx, state)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to verify authorization state", err)
	}
	if !ok {
		return "", errors.NewAppError(errors.ErrUnauthorized, "Unknown or expired authorization state", nil)
	}

	grant, err := s.connector.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleCallback:ExchangeFailed", "error", err, "provider", providerName)
		return "", errors.NewAppError(errors.ErrUpstream, "Provider rejected the authorization code", err)
	}

	email := grant.Email
	timezone := "UTC"
	if profileEmail, profileTZ, err := s.connector.FetchProfile(ctx, grant.AccessToken); err != nil {
		if email == "" {
			logger.Error("AuthService:HandleCallback:ProfileFailed", "error", err, "provider", providerName)
			return "", errors.NewAppError(errors.ErrUpstream, "Failed to resolve the calendar identity", err)
		}
		logger.Warn("AuthService:HandleCallback:ProfileFallback", "error", err)
	} else {
		if profileEmail != "" {
			email = profileEmail
		}
		if profileTZ != "" {
			timezone = profileTZ
		}
	}
	if email == "" {
		return "", errors.NewAppError(errors.ErrUpstream, "Provider returned no calendar identity", nil)
	}

	sealedAccess, err := s.cipher.Seal(grant.AccessToken)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to seal credentials", err)
	}
	sealedRefresh, err := s.cipher.Seal(grant.RefreshToken)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to seal credentials", err)
	}

	cfg := config.Get()
	expiresAt := grant.ExpiresAt
	conn := &calentity.CalendarConnection{
		OwnerID:             ownerID,
		Slug:                utils.GenerateSlug(email),
		Provider:            providerName,
		Email:               email,
		AccessToken:         sealedAccess,
		RefreshToken:        sealedRefresh,
		TokenExpiresAt:      &expiresAt,
		Timezone:            timezone,
		BusinessHoursStart:  cfg.Booking.BusinessHoursStart,
		BusinessHoursEnd:    cfg.Booking.BusinessHoursEnd,
		SlotDurationMinutes: cfg.Booking.SlotDurationMinutes,
	}
	conn, err = s.connectionRepo.Upsert(ctx, conn)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to store the calendar connection", err)
	}

	manageToken, err := utils.IssueManageToken(cfg.JWTSecret, conn.Slug, constants.ManageTokenTTL)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to issue manage token", err)
	}

	logger.Info("AuthService:HandleCallback:Connected",
		"provider", providerName, "owner_id", ownerID, "slug", conn.Slug, "email", email)

	redirect := fmt.Sprintf("/setup.html?slug=%s&manage_token=%s",
		url.QueryEscape(conn.Slug), url.QueryEscape(manageToken))
	return redirect, nil
}

func (s *authService) checkProvider(providerName string) *errors.AppError {
	cfg := config.Get()
	if providerName != cfg.Provider {
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Provider %q is not enabled", providerName), nil)
	}
	return nil
}
