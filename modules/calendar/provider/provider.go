package provider

import (
	"context"
	"fmt"
	"time"
)

// BusyInterval is an occupied range on the owner's calendar, half-open
// [Start, End), absolute UTC. Produced per request, never persisted. No
// ordering is guaranteed; callers sort.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// EventRequest describes the calendar event a booking creates.
type EventRequest struct {
	Title         string
	Start         time.Time
	End           time.Time
	Timezone      string
	CustomerName  string
	CustomerEmail string
}

// Event is the durable record the remote calendar keeps for a booking.
type Event struct {
	ID string
}

// TokenGrant is the credential material returned by an OAuth code exchange
// or refresh.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Email        string
}

// CalendarProvider is the single capability the engine consumes. Two vendor
// backends implement it; nothing outside this package branches on which one
// is configured.
type CalendarProvider interface {
	Name() string
	// RefreshAccessToken trades a refresh token for a fresh access token and
	// its expiry.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error)
	// GetBusyIntervals returns the busy ranges within [windowStart, windowEnd)
	// for the calendar identified by identity (the owner's calendar email or
	// equivalent).
	GetBusyIntervals(ctx context.Context, accessToken string, windowStart, windowEnd time.Time, identity string) ([]BusyInterval, error)
	// CreateEvent writes the booking onto the owner's calendar. Not
	// idempotent; callers must not retry on failure.
	CreateEvent(ctx context.Context, accessToken string, req *EventRequest) (*Event, error)
}

// OAuthConnector is the onboarding side of a provider: consent URL and code
// exchange. Kept separate from CalendarProvider because only the auth module
// needs it.
type OAuthConnector interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*TokenGrant, error)
	// FetchProfile resolves the owner's calendar identity (email) and
	// calendar timezone from a fresh access token.
	FetchProfile(ctx context.Context, accessToken string) (email, timezone string, err error)
}

// New returns the configured provider backend.
func New(name string) (CalendarProvider, error) {
	switch name {
	case "google":
		return NewGoogleProvider(), nil
	case "nylas":
		return NewNylasProvider(), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider %q", name)
	}
}

// NewConnector returns the OAuth onboarding side of the configured backend.
func NewConnector(name string) (OAuthConnector, error) {
	switch name {
	case "google":
		return NewGoogleProvider(), nil
	case "nylas":
		return NewNylasProvider(), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider %q", name)
	}
}
