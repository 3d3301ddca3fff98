package router

import (
	"bookinglink/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	Controller *controller.CalendarController
}

func NewCalendarRouter(ctrl *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{Controller: ctrl}
}

func (r *CalendarRouter) Setup(e *echo.Echo) {
	e.GET("/api/availability", r.Controller.GetAvailability)
}
