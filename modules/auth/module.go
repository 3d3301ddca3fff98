package auth

import (
	"bookinglink/core/crypto"
	"bookinglink/core/database"
	"bookinglink/modules/auth/controller"
	"bookinglink/modules/auth/repository"
	"bookinglink/modules/auth/router"
	"bookinglink/modules/auth/service"
	"bookinglink/modules/calendar/provider"
	calrepository "bookinglink/modules/calendar/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, connector provider.OAuthConnector, cipher *crypto.Cipher) {
	stateRepo := repository.NewOAuthStateRepository(db)
	connectionRepo := calrepository.NewConnectionRepository(db)
	authSvc := service.NewAuthService(stateRepo, connectionRepo, connector, cipher)

	ctrl := controller.NewAuthController(authSvc)
	router.NewAuthRouter(ctrl).Setup(e)
}
