package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	productH *handler.ProductHandler,
	orderH *handler.OrderHandler,
	returnH *handler.ReturnHandler,
	adminOrderH *handler.AdminOrderHandler,
	adminReturnH *handler.AdminReturnHandler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	productH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	returnH.RegisterRoutes(e, cfg)
	adminOrderH.RegisterRoutes(e, cfg)
	adminReturnH.RegisterRoutes(e, cfg)
}
