package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func Start(
	addr string,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) error {
	e := echo.New()
	e.HideBanner = true

	RegisterRoutes(e, cfg, authH, productH, cartH, orderH)

	return e.Start(addr)
}
