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
)

// NylasProvider talks to the Nylas v3 aggregator API. Nylas hands out a
// long-lived grant instead of an expiring access token pair, so the grant id
// stands in for both token fields and "refresh" simply re-stamps the expiry.
type NylasProvider struct {
	client   *http.Client
	throttle *throttle
}

func NewNylasProvider() *NylasProvider {
	return &NylasProvider{
		client:   &http.Client{Timeout: constants.ProviderTimeout},
		throttle: newThrottle(),
	}
}

func (p *NylasProvider) Name() string {
	return "nylas"
}

func (p *NylasProvider) AuthCodeURL(state string) string {
	cfg := config.Get()
	params := url.Values{}
	params.Set("client_id", cfg.Nylas.ClientID)
	params.Set("redirect_uri", cfg.Nylas.RedirectURI)
	params.Set("response_type", "code")
	params.Set("access_type", "offline")
	params.Set("state", state)
	return cfg.Nylas.APIURI + "/v3/connect/auth?" + params.Encode()
}

func (p *NylasProvider) ExchangeCode(ctx context.Context, code string) (*TokenGrant, error) {
	cfg := config.Get()
	payload := map[string]any{
		"client_id":     cfg.Nylas.ClientID,
		"client_secret": cfg.Nylas.APIKey,
		"code":          code,
		"grant_type":    "authorization_code",
		"redirect_uri":  cfg.Nylas.RedirectURI,
	}

	var result struct {
		GrantID string `json:"grant_id"`
		Email   string `json:"email"`
	}
	if err := p.postJSON(ctx, cfg.Nylas.APIURI+"/v3/connect/token", "", payload, &result); err != nil {
		return nil, fmt.Errorf("Nylas token exchange failed: %w", err)
	}
	if result.GrantID == "" {
		return nil, fmt.Errorf("no grant_id in Nylas response")
	}

	return &TokenGrant{
		AccessToken:  result.GrantID,
		RefreshToken: result.GrantID,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		Email:        result.Email,
	}, nil
}

func (p *NylasProvider) FetchProfile(ctx context.Context, accessToken string) (string, string, error) {
	cfg := config.Get()
	var result struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := p.getJSON(ctx, cfg.Nylas.APIURI+"/v3/grants/"+accessToken, &result); err != nil {
		return "", "", fmt.Errorf("failed to fetch Nylas grant: %w", err)
	}
	return result.Data.Email, "UTC", nil
}

// RefreshAccessToken re-stamps the grant's expiry. Grants are revoked, not
// expired, so no network call is needed; an invalid grant surfaces on the
// next free/busy or event call.
func (p *NylasProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	return refreshToken, time.Now().Add(24 * time.Hour), nil
}

func (p *NylasProvider) GetBusyIntervals(ctx context.Context, accessToken string, windowStart, windowEnd time.Time, identity string) ([]BusyInterval, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return nil, err
	}

	cfg := config.Get()
	payload := map[string]any{
		"start_time": windowStart.Unix(),
		"end_time":   windowEnd.Unix(),
		"emails":     []string{identity},
	}

	var result struct {
		Data []struct {
			TimeSlots []struct {
				StartTime int64  `json:"start_time"`
				EndTime   int64  `json:"end_time"`
				Status    string `json:"status"`
			} `json:"time_slots"`
		} `json:"data"`
	}
	apiURL := cfg.Nylas.APIURI + "/v3/grants/" + accessToken + "/calendars/free-busy"
	if err := p.postJSON(ctx, apiURL, cfg.Nylas.APIKey, payload, &result); err != nil {
		return nil, fmt.Errorf("Nylas free/busy call failed: %w", err)
	}

	var intervals []BusyInterval
	for _, entry := range result.Data {
		for _, slot := range entry.TimeSlots {
			if slot.Status != "busy" {
				continue
			}
			intervals = append(intervals, BusyInterval{
				Start: time.Unix(slot.StartTime, 0).UTC(),
				End:   time.Unix(slot.EndTime, 0).UTC(),
			})
		}
	}
	return intervals, nil
}

func (p *NylasProvider) CreateEvent(ctx context.Context, accessToken string, req *EventRequest) (*Event, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return nil, err
	}

	cfg := config.Get()
	payload := map[string]any{
		"title": req.Title,
		"when": map[string]int64{
			"start_time": req.Start.Unix(),
			"end_time":   req.End.Unix(),
		},
		"participants": []map[string]string{
			{"email": req.CustomerEmail, "name": req.CustomerName},
		},
		"notify_participants": true,
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	apiURL := cfg.Nylas.APIURI + "/v3/grants/" + accessToken + "/events?calendar_id=primary"
	if err := p.postJSON(ctx, apiURL, cfg.Nylas.APIKey, payload, &result); err != nil {
		return nil, fmt.Errorf("Nylas event creation failed: %w", err)
	}
	return &Event{ID: result.Data.ID}, nil
}

func (p *NylasProvider) getJSON(ctx context.Context, apiURL string, dest any) error {
	cfg := config.Get()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Nylas.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Nylas API error %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (p *NylasProvider) postJSON(ctx context.Context, apiURL, bearer string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Nylas API error %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
