package middleware

import (
	"net/http"
	"strings"

	"bookinglink/core/controller"
	"bookinglink/core/errors"
	"bookinglink/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

const manageSlugKey = "manage_slug"

// ManageTokenMiddleware requires a Bearer manage token whose slug matches the
// :slug route parameter. Used on owner settings writes.
func (m *Middleware) ManageTokenMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "missing manage token")
			}
			token := strings.TrimPrefix(header, "Bearer ")

			slug, err := utils.ParseManageToken(m.jwtSecret, token)
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid manage token")
			}
			if routeSlug := c.Param("slug"); routeSlug != "" && routeSlug != slug {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "manage token is for a different booking page")
			}

			c.Set(manageSlugKey, slug)
			return next(c)
		}
	}
}

// ManageSlug returns the slug a validated manage token was bound to.
func ManageSlug(c echo.Context) string {
	if v, ok := c.Get(manageSlugKey).(string); ok {
		return v
	}
	return ""
}
