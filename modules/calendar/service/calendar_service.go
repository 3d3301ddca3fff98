package service

import (
	"context"
	"time"

	"bookinglink/core/constants"
	"bookinglink/core/errors"
	"bookinglink/core/logger"
	"bookinglink/modules/calendar/dto"
	"bookinglink/modules/calendar/entity"
	"bookinglink/modules/calendar/provider"
	"bookinglink/modules/calendar/repository"
)

type CalendarService interface {
	GetAvailability(ctx context.Context, slug, dateStr string) (*dto.AvailabilityResponse, *errors.AppError)
}

type calendarService struct {
	connectionRepo repository.ConnectionRepository
	provider       provider.CalendarProvider
	tokenManager   TokenManager
}

func NewCalendarService(connectionRepo repository.ConnectionRepository, prov provider.CalendarProvider, tokenManager TokenManager) CalendarService {
	return &calendarService{
		connectionRepo: connectionRepo,
		provider:       prov,
		tokenManager:   tokenManager,
	}
}

// GetAvailability computes the free slots for a booking page on one date.
// The result reflects the calendar at the moment of the provider call; it is
// never cached.
func (s *calendarService) GetAvailability(ctx context.Context, slug, dateStr string) (*dto.AvailabilityResponse, *errors.AppError) {
	if slug == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Missing slug parameter", nil)
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", err)
	}

	conn, err := s.connectionRepo.GetValidBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No calendar connected for this booking page", nil)
	}

	windowStart, windowEnd, duration := bookingWindow(conn, date)

	accessToken, appErr := s.tokenManager.EnsureValidToken(ctx, conn)
	if appErr != nil {
		return nil, appErr
	}

	busy, err := s.provider.GetBusyIntervals(ctx, accessToken, windowStart, windowEnd, conn.Email)
	if err != nil {
		logger.Error("CalendarService:GetAvailability:FreeBusyFailed", "error", err, "slug", slug)
		return nil, errors.NewAppError(errors.ErrUpstream, "Failed to read the calendar's busy intervals", err)
	}

	start := TimeOfDay{Hour: windowStart.Hour(), Minute: windowStart.Minute()}
	end := TimeOfDay{Hour: windowEnd.Hour(), Minute: windowEnd.Minute()}
	slots := ComputeSlots(busy, windowStart, start, end, duration)

	response := &dto.AvailabilityResponse{
		Date:                dateStr,
		Timezone:            conn.Timezone,
		SlotDurationMinutes: duration,
		Slots:               make([]dto.SlotResponse, 0, len(slots)),
		OwnerEmail:          conn.Email,
	}
	for _, slot := range slots {
		response.Slots = append(response.Slots, dto.SlotResponse{
			StartTime: slot.Start.Unix(),
			EndTime:   slot.End.Unix(),
		})
	}

	logger.Info("CalendarService:GetAvailability:Success",
		"slug", slug, "date", dateStr, "busy", len(busy), "slots", len(response.Slots))
	return response, nil
}

// bookingWindow resolves the connection's business hours on the given date.
// The window is absolute UTC; the stored timezone is display metadata for the
// booking page, never an offset applied here. Unparsable stored values fall
// back to the defaults rather than failing the request.
func bookingWindow(conn *entity.CalendarConnection, date time.Time) (time.Time, time.Time, int) {
	start, err := ParseTimeOfDay(conn.BusinessHoursStart)
	if err != nil {
		logger.Warn("CalendarService:BookingWindow:BadStart", "value", conn.BusinessHoursStart, "slug", conn.Slug)
		start, _ = ParseTimeOfDay(constants.DefaultBusinessHoursStart)
	}
	end, err := ParseTimeOfDay(conn.BusinessHoursEnd)
	if err != nil {
		logger.Warn("CalendarService:BookingWindow:BadEnd", "value", conn.BusinessHoursEnd, "slug", conn.Slug)
		end, _ = ParseTimeOfDay(constants.DefaultBusinessHoursEnd)
	}

	duration := conn.SlotDurationMinutes
	if duration <= 0 {
		duration = constants.DefaultSlotDurationMinutes
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return start.on(day), end.on(day), duration
}
