package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"bookinglink/core/config"
	"bookinglink/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeBookingConfirmed = "booking:confirmed"

// BookingConfirmedPayload is enqueued after a calendar event is created so
// the notification side happens off the request path.
type BookingConfirmedPayload struct {
	OwnerID       uuid.UUID `json:"owner_id"`
	EventID       string    `json:"event_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	StartTime     int64     `json:"start_time"`
	EndTime       int64     `json:"end_time"`
}

type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) EnqueueBookingConfirmed(ctx context.Context, p *BookingConfirmedPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal booking confirmed payload: %w", err)
	}
	info, err := c.inner.EnqueueContext(ctx, asynq.NewTask(TypeBookingConfirmed, payload), asynq.MaxRetry(3))
	if err != nil {
		return err
	}
	logger.Info("Worker:EnqueueBookingConfirmed", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}

type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(cfg config.RedisConfig) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{Concurrency: 4},
	)
	return &Server{srv: srv, mux: asynq.NewServeMux()}
}

func (s *Server) HandleFunc(pattern string, handler func(context.Context, *asynq.Task) error) {
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
