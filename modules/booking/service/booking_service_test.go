package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookinglink/core/errors"
	"bookinglink/modules/booking/dto"
	calentity "bookinglink/modules/calendar/entity"
	"bookinglink/modules/calendar/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnectionRepo struct {
	conn *calentity.CalendarConnection
}

func (r *fakeConnectionRepo) GetValidBySlug(ctx context.Context, slug string) (*calentity.CalendarConnection, error) {
	if r.conn != nil && r.conn.Slug == slug {
		return r.conn, nil
	}
	return nil, nil
}

func (r *fakeConnectionRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*calentity.CalendarConnection, error) {
	return nil, nil
}

func (r *fakeConnectionRepo) Upsert(ctx context.Context, conn *calentity.CalendarConnection) (*calentity.CalendarConnection, error) {
	return conn, nil
}

func (r *fakeConnectionRepo) UpdateTokens(ctx context.Context, id uuid.UUID, sealedAccessToken string, expiresAt time.Time) error {
	return nil
}

func (r *fakeConnectionRepo) UpdateSettings(ctx context.Context, slug, timezone, businessStart, businessEnd string, slotDurationMinutes int) (bool, error) {
	return true, nil
}

func (r *fakeConnectionRepo) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return nil
}

type fakeCalendarProvider struct {
	mu           sync.Mutex
	busy         []provider.BusyInterval
	createdCount int
	lastRequest  *provider.EventRequest
}

func (p *fakeCalendarProvider) Name() string { return "fake" }

func (p *fakeCalendarProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	return "access", time.Now().Add(time.Hour), nil
}

func (p *fakeCalendarProvider) GetBusyIntervals(ctx context.Context, accessToken string, windowStart, windowEnd time.Time, identity string) ([]provider.BusyInterval, error) {
	return p.busy, nil
}

func (p *fakeCalendarProvider) CreateEvent(ctx context.Context, accessToken string, req *provider.EventRequest) (*provider.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createdCount++
	p.lastRequest = req
	return &provider.Event{ID: "evt-123"}, nil
}

type fakeTokenManager struct{}

func (m *fakeTokenManager) EnsureValidToken(ctx context.Context, conn *calentity.CalendarConnection) (string, *errors.AppError) {
	return "access", nil
}

func testBookingService(conn *calentity.CalendarConnection, prov *fakeCalendarProvider, limiter RateLimiter) BookingService {
	if limiter == nil {
		limiter = NewMemoryLimiter(100, time.Minute)
	}
	return NewBookingService(&fakeConnectionRepo{conn: conn}, prov, &fakeTokenManager{}, limiter, nil)
}

func testBookingConnection() *calentity.CalendarConnection {
	conn := &calentity.CalendarConnection{
		OwnerID:  uuid.New(),
		Slug:     "alice-x1y2z3",
		Provider: "fake",
		Email:    "alice@example.com",
		Timezone: "UTC",
	}
	conn.ID = uuid.New()
	return conn
}

func validRequest() *dto.BookingRequest {
	start := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	return &dto.BookingRequest{
		Slug:          "alice-x1y2z3",
		StartTime:     start.Unix(),
		EndTime:       start.Add(30 * time.Minute).Unix(),
		CustomerName:  "Bob",
		CustomerEmail: "bob@example.com",
	}
}

func TestBookCreatesEvent(t *testing.T) {
	prov := &fakeCalendarProvider{}
	svc := testBookingService(testBookingConnection(), prov, nil)
	req := validRequest()

	resp, appErr := svc.Book(context.Background(), "1.2.3.4", req)

	require.Nil(t, appErr)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "evt-123", resp.EventID)
	assert.Equal(t, "Booking: Bob", resp.Title)
	assert.Equal(t, req.StartTime, resp.StartTime)
	assert.Equal(t, req.EndTime, resp.EndTime)
	assert.Equal(t, 1, prov.createdCount)
	assert.Equal(t, "bob@example.com", prov.lastRequest.CustomerEmail)
}

func TestBookConflictWhenSlotTaken(t *testing.T) {
	req := validRequest()
	prov := &fakeCalendarProvider{
		busy: []provider.BusyInterval{
			{Start: time.Unix(req.StartTime, 0).UTC(), End: time.Unix(req.EndTime, 0).UTC()},
		},
	}
	svc := testBookingService(testBookingConnection(), prov, nil)

	_, appErr := svc.Book(context.Background(), "1.2.3.4", req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Equal(t, 0, prov.createdCount, "a conflicting booking must not create an event")
}

func TestBookAllowsAdjacentMeeting(t *testing.T) {
	req := validRequest()
	// A meeting ending exactly when the booking starts is not a conflict.
	prov := &fakeCalendarProvider{
		busy: []provider.BusyInterval{
			{Start: time.Unix(req.StartTime, 0).Add(-time.Hour).UTC(), End: time.Unix(req.StartTime, 0).UTC()},
		},
	}
	svc := testBookingService(testBookingConnection(), prov, nil)

	resp, appErr := svc.Book(context.Background(), "1.2.3.4", req)

	require.Nil(t, appErr)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestBookUnknownSlug(t *testing.T) {
	prov := &fakeCalendarProvider{}
	svc := testBookingService(testBookingConnection(), prov, nil)
	req := validRequest()
	req.Slug = "nobody-here"

	_, appErr := svc.Book(context.Background(), "1.2.3.4", req)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestBookRateLimited(t *testing.T) {
	prov := &fakeCalendarProvider{}
	svc := testBookingService(testBookingConnection(), prov, NewMemoryLimiter(1, time.Minute))

	_, appErr := svc.Book(context.Background(), "1.2.3.4", validRequest())
	require.Nil(t, appErr)

	_, appErr = svc.Book(context.Background(), "1.2.3.4", validRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrRateLimited, appErr.Code)

	// A different client is unaffected.
	_, appErr = svc.Book(context.Background(), "5.6.7.8", validRequest())
	assert.Nil(t, appErr)
}

func TestBookMalformedRequestsConsumeWindow(t *testing.T) {
	prov := &fakeCalendarProvider{}
	svc := testBookingService(testBookingConnection(), prov, NewMemoryLimiter(1, time.Minute))

	bad := validRequest()
	bad.CustomerEmail = "not-an-email"

	// The rate check runs before validation, so the malformed request still
	// burns the window and the second attempt sees 429, not 400.
	_, appErr := svc.Book(context.Background(), "1.2.3.4", bad)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)

	_, appErr = svc.Book(context.Background(), "1.2.3.4", bad)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrRateLimited, appErr.Code)
}

func TestBookValidation(t *testing.T) {
	prov := &fakeCalendarProvider{}
	svc := testBookingService(testBookingConnection(), prov, nil)

	cases := []struct {
		name   string
		mutate func(*dto.BookingRequest)
	}{
		{"missing slug", func(r *dto.BookingRequest) { r.Slug = "" }},
		{"missing name", func(r *dto.BookingRequest) { r.CustomerName = "" }},
		{"bad email", func(r *dto.BookingRequest) { r.CustomerEmail = "not-an-email" }},
		{"missing times", func(r *dto.BookingRequest) { r.StartTime = 0; r.EndTime = 0 }},
		{"end before start", func(r *dto.BookingRequest) { r.EndTime = r.StartTime - 60 }},
		{"zero length", func(r *dto.BookingRequest) { r.EndTime = r.StartTime }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, appErr := svc.Book(context.Background(), "1.2.3.4", req)

			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
			assert.Equal(t, 0, prov.createdCount)
		})
	}
}
