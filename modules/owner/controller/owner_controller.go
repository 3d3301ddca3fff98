package controller

import (
	"net/http"

	basecontroller "bookinglink/core/controller"
	"bookinglink/core/errors"
	"bookinglink/modules/owner/dto"
	"bookinglink/modules/owner/service"

	"github.com/labstack/echo/v4"
)

type OwnerController struct {
	basecontroller.BaseController
	ownerService service.OwnerService
}

func NewOwnerController(ownerService service.OwnerService) *OwnerController {
	return &OwnerController{
		BaseController: basecontroller.NewBaseController(),
		ownerService:   ownerService,
	}
}

// GetOwner handles GET /api/owner/:slug.
func (ctrl *OwnerController) GetOwner(c echo.Context) error {
	response, appErr := ctrl.ownerService.GetOwner(c.Request().Context(), c.Param("slug"))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, response)
}

// UpdateSettings handles POST /api/owner/:slug/settings. Requires a manage
// token bound to the same slug.
func (ctrl *OwnerController) UpdateSettings(c echo.Context) error {
	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.ErrorResponse(c, errors.NewAppError(errors.ErrInvalidRequestData, "Malformed settings request", err))
	}

	response, appErr := ctrl.ownerService.UpdateSettings(c.Request().Context(), c.Param("slug"), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, response)
}

// Disconnect handles DELETE /api/owner/:slug. Requires a manage token bound
// to the same slug.
func (ctrl *OwnerController) Disconnect(c echo.Context) error {
	if appErr := ctrl.ownerService.Disconnect(c.Request().Context(), c.Param("slug")); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, map[string]string{"status": "disconnected"})
}

// ListNotifications handles GET /api/owner/:slug/notifications. Requires a
// manage token bound to the same slug.
func (ctrl *OwnerController) ListNotifications(c echo.Context) error {
	responses, appErr := ctrl.ownerService.ListNotifications(c.Request().Context(), c.Param("slug"))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return ctrl.JSON(c, http.StatusOK, responses)
}
