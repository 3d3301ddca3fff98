package service

import (
	"context"
	"testing"
	"time"

	"bookinglink/core/errors"
	calentity "bookinglink/modules/calendar/entity"
	notifentity "bookinglink/modules/notification/entity"
	notifservice "bookinglink/modules/notification/service"
	"bookinglink/modules/owner/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnectionRepo struct {
	conn         *calentity.CalendarConnection
	lastTimezone string
	lastStart    string
	lastEnd      string
	lastDuration    int
	updateCalls     int
	invalidateCalls int
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
	r.updateCalls++
	r.lastTimezone = timezone
	r.lastStart = businessStart
	r.lastEnd = businessEnd
	r.lastDuration = slotDurationMinutes
	return true, nil
}

func (r *fakeConnectionRepo) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	r.invalidateCalls++
	return nil
}

type fakeNotificationRepo struct {
	notifications []notifentity.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, ownerID uuid.UUID, title, message string) error {
	n := notifentity.Notification{OwnerID: ownerID, Title: title, Message: message}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]notifentity.Notification, error) {
	return r.notifications, nil
}

func testOwnerConnection() *calentity.CalendarConnection {
	conn := &calentity.CalendarConnection{
		OwnerID:             uuid.New(),
		Slug:                "alice-x1y2z3",
		Provider:            "google",
		Email:               "alice@example.com",
		Timezone:            "UTC",
		BusinessHoursStart:  "09:00",
		BusinessHoursEnd:    "17:00",
		SlotDurationMinutes: 30,
		ConnectedAt:         time.Now(),
	}
	conn.ID = uuid.New()
	return conn
}

func newTestOwnerService(repo *fakeConnectionRepo, notifRepo *fakeNotificationRepo) OwnerService {
	if notifRepo == nil {
		notifRepo = &fakeNotificationRepo{}
	}
	return NewOwnerService(repo, notifservice.NewNotificationService(notifRepo))
}

func TestGetOwnerPublicView(t *testing.T) {
	repo := &fakeConnectionRepo{conn: testOwnerConnection()}
	svc := newTestOwnerService(repo, nil)

	resp, appErr := svc.GetOwner(context.Background(), "alice-x1y2z3")

	require.Nil(t, appErr)
	assert.Equal(t, "alice-x1y2z3", resp.Slug)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "09:00", resp.BusinessHoursStart)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
}

func TestGetOwnerUnknownSlug(t *testing.T) {
	repo := &fakeConnectionRepo{conn: testOwnerConnection()}
	svc := newTestOwnerService(repo, nil)

	_, appErr := svc.GetOwner(context.Background(), "nobody-here")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestUpdateSettingsPartialMerge(t *testing.T) {
	repo := &fakeConnectionRepo{conn: testOwnerConnection()}
	svc := newTestOwnerService(repo, nil)

	resp, appErr := svc.UpdateSettings(context.Background(), "alice-x1y2z3", &dto.SettingsRequest{
		BusinessHoursStart: "08:00",
	})

	require.Nil(t, appErr)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, "08:00", repo.lastStart)
	assert.Equal(t, "17:00", repo.lastEnd, "unset fields keep stored values")
	assert.Equal(t, "UTC", repo.lastTimezone)
	assert.Equal(t, 30, repo.lastDuration)
	assert.Equal(t, "08:00", resp.BusinessHoursStart)
}

func TestUpdateSettingsValidation(t *testing.T) {
	cases := []struct {
		name string
		req  dto.SettingsRequest
	}{
		{"bad start format", dto.SettingsRequest{BusinessHoursStart: "9am"}},
		{"bad end format", dto.SettingsRequest{BusinessHoursEnd: "25:00"}},
		{"start after end", dto.SettingsRequest{BusinessHoursStart: "18:00"}},
		{"negative duration", dto.SettingsRequest{SlotDurationMinutes: -15}},
		{"unknown timezone", dto.SettingsRequest{Timezone: "Mars/Olympus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeConnectionRepo{conn: testOwnerConnection()}
			svc := newTestOwnerService(repo, nil)

			_, appErr := svc.UpdateSettings(context.Background(), "alice-x1y2z3", &tc.req)

			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
			assert.Equal(t, 0, repo.updateCalls)
		})
	}
}

func TestDisconnect(t *testing.T) {
	repo := &fakeConnectionRepo{conn: testOwnerConnection()}
	svc := newTestOwnerService(repo, nil)

	appErr := svc.Disconnect(context.Background(), "alice-x1y2z3")
	require.Nil(t, appErr)
	assert.Equal(t, 1, repo.invalidateCalls)

	appErr = svc.Disconnect(context.Background(), "nobody-here")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestListNotifications(t *testing.T) {
	conn := testOwnerConnection()
	repo := &fakeConnectionRepo{conn: conn}
	notifRepo := &fakeNotificationRepo{}
	require.NoError(t, notifRepo.Create(context.Background(), conn.OwnerID, "New booking confirmed", "Bob booked"))
	svc := newTestOwnerService(repo, notifRepo)

	responses, appErr := svc.ListNotifications(context.Background(), "alice-x1y2z3")

	require.Nil(t, appErr)
	require.Len(t, responses, 1)
	assert.Equal(t, "New booking confirmed", responses[0].Title)
	assert.NotEmpty(t, responses[0].ID)
}
