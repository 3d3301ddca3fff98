package owner

import (
	"bookinglink/core/config"
	"bookinglink/core/database"
	"bookinglink/core/middleware"
	calrepository "bookinglink/modules/calendar/repository"
	notifrepository "bookinglink/modules/notification/repository"
	notifservice "bookinglink/modules/notification/service"
	"bookinglink/modules/owner/controller"
	"bookinglink/modules/owner/router"
	"bookinglink/modules/owner/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) {
	connectionRepo := calrepository.NewConnectionRepository(db)
	notificationRepo := notifrepository.NewNotificationRepository(db)
	notificationSvc := notifservice.NewNotificationService(notificationRepo)
	ownerSvc := service.NewOwnerService(connectionRepo, notificationSvc)

	ctrl := controller.NewOwnerController(ownerSvc)
	mw := middleware.NewMiddleware(config.Get().JWTSecret)
	router.NewOwnerRouter(ctrl).Setup(e, mw)
}
