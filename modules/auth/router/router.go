package router

import (
	"bookinglink/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	Controller *controller.AuthController
}

func NewAuthRouter(ctrl *controller.AuthController) *AuthRouter {
	return &AuthRouter{Controller: ctrl}
}

func (r *AuthRouter) Setup(e *echo.Echo) {
	e.GET("/auth/:provider", r.Controller.Authorize)
	e.GET("/auth/:provider/callback", r.Controller.Callback)
}
