package controller

import (
	"net/http"

	basecontroller "bookinglink/core/controller"
	"bookinglink/core/errors"
	"bookinglink/modules/booking/dto"
	"bookinglink/modules/booking/service"

	"github.com/labstack/echo/v4"
)

type BookingController struct {
	basecontroller.BaseController
	bookingService service.BookingService
}

func NewBookingController(bookingService service.BookingService) *BookingController {
	return &BookingController{
		BaseController: basecontroller.NewBaseController(),
		bookingService: bookingService,
	}
}

// Book handles POST /api/book.
func (ctrl *BookingController) Book(c echo.Context) error {
	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.ErrorResponse(c, errors.NewAppError(errors.ErrInvalidRequestData, "Malformed booking request", err))
	}

	response, appErr := ctrl.bookingService.Book(c.Request().Context(), c.RealIP(), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, response)
}
