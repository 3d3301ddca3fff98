package controller

import (
	"net/http"

	basecontroller "bookinglink/core/controller"
	"bookinglink/core/errors"
	"bookinglink/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	basecontroller.BaseController
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		BaseController: basecontroller.NewBaseController(),
		authService:    authService,
	}
}

// Authorize handles GET /auth/:provider and sends the browser to the
// provider's consent screen.
func (ctrl *AuthController) Authorize(c echo.Context) error {
	authURL, appErr := ctrl.authService.GetAuthURL(c.Request().Context(), c.Param("provider"))
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles GET /auth/:provider/callback.
func (ctrl *AuthController) Callback(c echo.Context) error {
	if denied := c.QueryParam("error"); denied != "" {
		return ctrl.ErrorResponse(c, errors.NewAppError(errors.ErrUnauthorized, "Authorization was denied: "+denied, nil))
	}

	redirect, appErr := ctrl.authService.HandleCallback(
		c.Request().Context(),
		c.Param("provider"),
		c.QueryParam("code"),
		c.QueryParam("state"),
	)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}
	return c.Redirect(http.StatusFound, redirect)
}
