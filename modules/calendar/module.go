package calendar

import (
	"bookinglink/core/crypto"
	"bookinglink/core/database"
	"bookinglink/modules/calendar/controller"
	"bookinglink/modules/calendar/provider"
	"bookinglink/modules/calendar/repository"
	"bookinglink/modules/calendar/router"
	"bookinglink/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, prov provider.CalendarProvider, cipher *crypto.Cipher) {
	connectionRepo := repository.NewConnectionRepository(db)
	tokenManager := service.NewTokenManager(connectionRepo, prov, cipher)
	calendarSvc := service.NewCalendarService(connectionRepo, prov, tokenManager)

	ctrl := controller.NewCalendarController(calendarSvc)
	router.NewCalendarRouter(ctrl).Setup(e)
}
