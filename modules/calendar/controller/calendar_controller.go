package controller

import (
	"net/http"

	basecontroller "bookinglink/core/controller"
	"bookinglink/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	basecontroller.BaseController
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  basecontroller.NewBaseController(),
		calendarService: calendarService,
	}
}

// GetAvailability handles GET /api/availability?slug=...&date=YYYY-MM-DD.
func (ctrl *CalendarController) GetAvailability(c echo.Context) error {
	slug := c.QueryParam("slug")
	date := c.QueryParam("date")

	response, appErr := ctrl.calendarService.GetAvailability(c.Request().Context(), slug, date)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, response)
}
