package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookinglink/core/config"
	"bookinglink/core/constants"
	"bookinglink/core/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"
	googleTokenAPI        = "https://oauth2.googleapis.com/token"
	googleUserInfoAPI     = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleTimezoneAPI     = googleCalendarAPIBase + "/users/me/settings/timezone"
)

type GoogleProvider struct {
	client   *http.Client
	throttle *throttle
}

func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{
		client:   &http.Client{Timeout: constants.ProviderTimeout},
		throttle: newThrottle(),
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) oauthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/calendar",
		},
		Endpoint: google.Endpoint,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*TokenGrant, error) {
	token, err := p.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("Google token exchange failed: %w", err)
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return nil, fmt.Errorf("missing tokens in Google response")
	}
	return &TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

func (p *GoogleProvider) FetchProfile(ctx context.Context, accessToken string) (string, string, error) {
	email := ""
	var userInfo struct {
		Email string `json:"email"`
	}
	if err := p.getJSON(ctx, googleUserInfoAPI, accessToken, &userInfo); err != nil {
		return "", "", fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	email = userInfo.Email

	// Timezone fetch is best-effort; UTC is a safe default.
	timezone := "UTC"
	var tzSetting struct {
		Value string `json:"value"`
	}
	if err := p.getJSON(ctx, googleTimezoneAPI, accessToken, &tzSetting); err != nil {
		logger.Warn("GoogleProvider:FetchProfile:TimezoneFallback", "error", err)
	} else if tzSetting.Value != "" {
		timezone = tzSetting.Value
	}

	return email, timezone, nil
}

// RefreshAccessToken calls the Google token endpoint with a refresh_token
// grant. Google refresh is idempotent per outstanding refresh token.
func (p *GoogleProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return "", time.Time{}, err
	}

	cfg := config.Get()
	form := url.Values{}
	form.Set("client_id", cfg.GoogleAPI.ClientID)
	form.Set("client_secret", cfg.GoogleAPI.ClientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenAPI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("Google token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int    `json:"expires_in"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", time.Time{}, fmt.Errorf("Google token refresh: bad response: %w", err)
	}
	if result.Error != "" {
		return "", time.Time{}, fmt.Errorf("Google token refresh error: %s - %s", result.Error, result.ErrorDescription)
	}
	if result.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("no access_token in Google refresh response")
	}
	if result.ExpiresIn <= 0 {
		result.ExpiresIn = 3600
	}

	return result.AccessToken, time.Now().Add(time.Duration(result.ExpiresIn) * time.Second), nil
}

func (p *GoogleProvider) GetBusyIntervals(ctx context.Context, accessToken string, windowStart, windowEnd time.Time, identity string) ([]BusyInterval, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"timeMin": windowStart.UTC().Format(time.RFC3339),
		"timeMax": windowEnd.UTC().Format(time.RFC3339),
		"items":   []map[string]string{{"id": identity}},
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := p.postJSON(ctx, googleFreeBusyAPI, accessToken, payload, &result); err != nil {
		return nil, fmt.Errorf("Google free/busy call failed: %w", err)
	}

	var intervals []BusyInterval
	for _, cal := range result.Calendars {
		for _, block := range cal.Busy {
			start, err1 := time.Parse(time.RFC3339, block.Start)
			end, err2 := time.Parse(time.RFC3339, block.End)
			if err1 != nil || err2 != nil {
				logger.Warn("GoogleProvider:GetBusyIntervals:SkipUnparsable", "start", block.Start, "end", block.End)
				continue
			}
			intervals = append(intervals, BusyInterval{Start: start.UTC(), End: end.UTC()})
		}
	}
	return intervals, nil
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, accessToken string, req *EventRequest) (*Event, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	payload := map[string]any{
		"summary": req.Title,
		"start": map[string]string{
			"dateTime": req.Start.UTC().Format(time.RFC3339),
			"timeZone": timezone,
		},
		"end": map[string]string{
			"dateTime": req.End.UTC().Format(time.RFC3339),
			"timeZone": timezone,
		},
		"attendees": []map[string]string{
			{"email": req.CustomerEmail, "displayName": req.CustomerName},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := p.postJSON(ctx, googleEventsAPI+"?sendUpdates=all", accessToken, payload, &result); err != nil {
		return nil, fmt.Errorf("Google event creation failed: %w", err)
	}
	return &Event{ID: result.ID}, nil
}

func (p *GoogleProvider) getJSON(ctx context.Context, apiURL, accessToken string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Google API error %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (p *GoogleProvider) postJSON(ctx context.Context, apiURL, accessToken string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Google API error %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
