package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"bookinglink/core/errors"
	"bookinglink/core/logger"
	"bookinglink/core/metric"
	"bookinglink/core/worker"
	"bookinglink/modules/booking/dto"
	"bookinglink/modules/calendar/provider"
	calrepository "bookinglink/modules/calendar/repository"
	calservice "bookinglink/modules/calendar/service"
)

type BookingService interface {
	Book(ctx context.Context, clientIP string, req *dto.BookingRequest) (*dto.BookingResponse, *errors.AppError)
}

type bookingService struct {
	connectionRepo calrepository.ConnectionRepository
	provider       provider.CalendarProvider
	tokenManager   calservice.TokenManager
	limiter        RateLimiter
	workerClient   *worker.Client // nil when no Redis is configured
}

func NewBookingService(connectionRepo calrepository.ConnectionRepository, prov provider.CalendarProvider, tokenManager calservice.TokenManager, limiter RateLimiter, workerClient *worker.Client) BookingService {
	return &bookingService{
		connectionRepo: connectionRepo,
		provider:       prov,
		tokenManager:   tokenManager,
		limiter:        limiter,
		workerClient:   workerClient,
	}
}

// Book confirms a booking. Order matters: the rate limit comes first so
// malformed requests still consume a flooding client's window, then
// validation, existence, the conflict re-check against a fresh busy read,
// and the single event write. The event write is never retried; a failure
// there must not risk a duplicate on the owner's calendar.
func (s *bookingService) Book(ctx context.Context, clientIP string, req *dto.BookingRequest) (*dto.BookingResponse, *errors.AppError) {
	allowed, err := s.limiter.Allow(ctx, clientIP)
	if err != nil {
		logger.Error("BookingService:Book:LimiterFailed", "error", err, "client_ip", clientIP)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check the request rate", err)
	}
	if !allowed {
		metric.RateLimited.Inc()
		logger.Warn("BookingService:Book:RateLimited", "client_ip", clientIP, "slug", req.Slug)
		return nil, errors.NewAppError(errors.ErrRateLimited, "Too many booking attempts, try again shortly", nil)
	}

	if appErr := validateBookingRequest(req); appErr != nil {
		return nil, appErr
	}

	conn, err := s.connectionRepo.GetValidBySlug(ctx, req.Slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No calendar connected for this booking page", nil)
	}

	accessToken, appErr := s.tokenManager.EnsureValidToken(ctx, conn)
	if appErr != nil {
		return nil, appErr
	}

	start := time.Unix(req.StartTime, 0).UTC()
	end := time.Unix(req.EndTime, 0).UTC()

	busy, err := s.provider.GetBusyIntervals(ctx, accessToken, start, end, conn.Email)
	if err != nil {
		metric.UpstreamFailures.Inc()
		logger.Error("BookingService:Book:FreeBusyFailed", "error", err, "slug", req.Slug)
		return nil, errors.NewAppError(errors.ErrUpstream, "Failed to re-check the calendar before booking", err)
	}
	if calservice.Overlaps(busy, start, end) {
		metric.BookingConflicts.Inc()
		logger.Info("BookingService:Book:Conflict", "slug", req.Slug, "start", start, "end", end)
		return nil, errors.NewAppError(errors.ErrConflict, "The requested slot is no longer available", nil)
	}

	title := fmt.Sprintf("Booking: %s", req.CustomerName)
	event, err := s.provider.CreateEvent(ctx, accessToken, &provider.EventRequest{
		Title:         title,
		Start:         start,
		End:           end,
		Timezone:      conn.Timezone,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		metric.UpstreamFailures.Inc()
		logger.Error("BookingService:Book:CreateEventFailed", "error", err, "slug", req.Slug)
		return nil, errors.NewAppError(errors.ErrUpstream, "Failed to create the calendar event", err)
	}

	metric.BookingsConfirmed.Inc()
	logger.Info("BookingService:Book:Confirmed",
		"slug", req.Slug, "event_id", event.ID, "start", start, "end", end)

	if s.workerClient != nil {
		payload := &worker.BookingConfirmedPayload{
			OwnerID:       conn.OwnerID,
			EventID:       event.ID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
		}
		if err := s.workerClient.EnqueueBookingConfirmed(ctx, payload); err != nil {
			// The booking stands; only the owner notification is lost.
			logger.Warn("BookingService:Book:EnqueueFailed", "error", err, "event_id", event.ID)
		}
	}

	return &dto.BookingResponse{
		Status:        "confirmed",
		EventID:       event.ID,
		Title:         title,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}, nil
}

func validateBookingRequest(req *dto.BookingRequest) *errors.AppError {
	if req.Slug == "" {
		return errors.NewAppError(errors.ErrInvalidRequestData, "Missing slug", nil)
	}
	if req.CustomerName == "" {
		return errors.NewAppError(errors.ErrInvalidRequestData, "Missing customer name", nil)
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return errors.NewAppError(errors.ErrInvalidRequestData, "Invalid customer email", err)
	}
	if req.StartTime <= 0 || req.EndTime <= 0 {
		return errors.NewAppError(errors.ErrInvalidRequestData, "Missing start or end time", nil)
	}
	if req.EndTime <= req.StartTime {
		return errors.NewAppError(errors.ErrInvalidRequestData, "End time must be after start time", nil)
	}
	return nil
}
