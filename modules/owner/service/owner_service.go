package service

import (
	"context"
	"time"

	"bookinglink/core/errors"
	"bookinglink/core/logger"
	calentity "bookinglink/modules/calendar/entity"
	calrepository "bookinglink/modules/calendar/repository"
	calservice "bookinglink/modules/calendar/service"
	notifservice "bookinglink/modules/notification/service"
	"bookinglink/modules/owner/dto"
)

// OwnerService serves the booking page's public profile and the manage-token
// protected settings writes.
type OwnerService interface {
	GetOwner(ctx context.Context, slug string) (*dto.OwnerResponse, *errors.AppError)
	UpdateSettings(ctx context.Context, slug string, req *dto.SettingsRequest) (*dto.OwnerResponse, *errors.AppError)
	ListNotifications(ctx context.Context, slug string) ([]dto.NotificationResponse, *errors.AppError)
	Disconnect(ctx context.Context, slug string) *errors.AppError
}

type ownerService struct {
	connectionRepo  calrepository.ConnectionRepository
	notificationSvc *notifservice.NotificationService
}

func NewOwnerService(connectionRepo calrepository.ConnectionRepository, notificationSvc *notifservice.NotificationService) OwnerService {
	return &ownerService{
		connectionRepo:  connectionRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *ownerService) GetOwner(ctx context.Context, slug string) (*dto.OwnerResponse, *errors.AppError) {
	conn, appErr := s.loadConnection(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}
	return toOwnerResponse(conn), nil
}

// UpdateSettings applies a partial settings change. Empty fields keep their
// stored values; everything submitted is validated before the write.
func (s *ownerService) UpdateSettings(ctx context.Context, slug string, req *dto.SettingsRequest) (*dto.OwnerResponse, *errors.AppError) {
	conn, appErr := s.loadConnection(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	timezone := conn.Timezone
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Unknown timezone", err)
		}
		timezone = req.Timezone
	}

	start := conn.BusinessHoursStart
	if req.BusinessHoursStart != "" {
		if _, err := calservice.ParseTimeOfDay(req.BusinessHoursStart); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid business hours start, expected HH:MM", err)
		}
		start = req.BusinessHoursStart
	}
	end := conn.BusinessHoursEnd
	if req.BusinessHoursEnd != "" {
		if _, err := calservice.ParseTimeOfDay(req.BusinessHoursEnd); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid business hours end, expected HH:MM", err)
		}
		end = req.BusinessHoursEnd
	}

	startOfDay, _ := calservice.ParseTimeOfDay(start)
	endOfDay, _ := calservice.ParseTimeOfDay(end)
	if startOfDay.Hour*60+startOfDay.Minute >= endOfDay.Hour*60+endOfDay.Minute {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Business hours start must be before end", nil)
	}

	duration := conn.SlotDurationMinutes
	if req.SlotDurationMinutes != 0 {
		if req.SlotDurationMinutes < 0 {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Slot duration must be positive", nil)
		}
		duration = req.SlotDurationMinutes
	}

	updated, err := s.connectionRepo.UpdateSettings(ctx, slug, timezone, start, end, duration)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update settings", err)
	}
	if !updated {
		return nil, errors.NewAppError(errors.ErrNotFound, "No calendar connected for this booking page", nil)
	}

	conn.Timezone = timezone
	conn.BusinessHoursStart = start
	conn.BusinessHoursEnd = end
	conn.SlotDurationMinutes = duration
	logger.Info("OwnerService:UpdateSettings:Success", "slug", slug)
	return toOwnerResponse(conn), nil
}

func (s *ownerService) ListNotifications(ctx context.Context, slug string) ([]dto.NotificationResponse, *errors.AppError) {
	conn, appErr := s.loadConnection(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	notifications, appErr := s.notificationSvc.ListByOwner(ctx, conn.OwnerID)
	if appErr != nil {
		return nil, appErr
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Unix(),
		})
	}
	return responses, nil
}

// Disconnect soft-invalidates the connection. The slug and row survive so a
// later re-authorization keeps the published booking URL.
func (s *ownerService) Disconnect(ctx context.Context, slug string) *errors.AppError {
	conn, appErr := s.loadConnection(ctx, slug)
	if appErr != nil {
		return appErr
	}
	if err := s.connectionRepo.Invalidate(ctx, conn.OwnerID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to disconnect the calendar", err)
	}
	logger.Info("OwnerService:Disconnect:Success", "slug", slug)
	return nil
}

func (s *ownerService) loadConnection(ctx context.Context, slug string) (*calentity.CalendarConnection, *errors.AppError) {
	if slug == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Missing slug parameter", nil)
	}
	conn, err := s.connectionRepo.GetValidBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No calendar connected for this booking page", nil)
	}
	return conn, nil
}

func toOwnerResponse(conn *calentity.CalendarConnection) *dto.OwnerResponse {
	return &dto.OwnerResponse{
		Slug:                conn.Slug,
		Email:               conn.Email,
		Provider:            conn.Provider,
		Timezone:            conn.Timezone,
		BusinessHoursStart:  conn.BusinessHoursStart,
		BusinessHoursEnd:    conn.BusinessHoursEnd,
		SlotDurationMinutes: conn.SlotDurationMinutes,
		ConnectedAt:         conn.ConnectedAt.Unix(),
	}
}
