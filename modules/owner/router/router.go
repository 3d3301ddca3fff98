package router

import (
	"bookinglink/core/middleware"
	"bookinglink/modules/owner/controller"

	"github.com/labstack/echo/v4"
)

type OwnerRouter struct {
	Controller *controller.OwnerController
}

func NewOwnerRouter(ctrl *controller.OwnerController) *OwnerRouter {
	return &OwnerRouter{Controller: ctrl}
}

func (r *OwnerRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	e.GET("/api/owner/:slug", r.Controller.GetOwner)

	managed := e.Group("/api/owner/:slug", mw.ManageTokenMiddleware())
	managed.POST("/settings", r.Controller.UpdateSettings)
	managed.GET("/notifications", r.Controller.ListNotifications)
	managed.DELETE("", r.Controller.Disconnect)
}
