package booking

import (
	"time"

	"bookinglink/core/cache"
	"bookinglink/core/config"
	"bookinglink/core/crypto"
	"bookinglink/core/database"
	"bookinglink/core/worker"
	"bookinglink/modules/booking/controller"
	"bookinglink/modules/booking/router"
	"bookinglink/modules/booking/service"
	"bookinglink/modules/calendar/provider"
	calrepository "bookinglink/modules/calendar/repository"
	calservice "bookinglink/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, prov provider.CalendarProvider, cipher *crypto.Cipher, redisCache cache.Cache, workerClient *worker.Client) {
	cfg := config.Get()
	window := time.Duration(cfg.Booking.RateLimitWindowSeconds) * time.Second

	var limiter service.RateLimiter
	if redisCache != nil {
		limiter = service.NewRedisLimiter(redisCache, cfg.Booking.RateLimitRequests, window)
	} else {
		limiter = service.NewMemoryLimiter(cfg.Booking.RateLimitRequests, window)
	}

	connectionRepo := calrepository.NewConnectionRepository(db)
	tokenManager := calservice.NewTokenManager(connectionRepo, prov, cipher)
	bookingSvc := service.NewBookingService(connectionRepo, prov, tokenManager, limiter, workerClient)

	ctrl := controller.NewBookingController(bookingSvc)
	router.NewBookingRouter(ctrl).Setup(e)
}
