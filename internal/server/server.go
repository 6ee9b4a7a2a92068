package server

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newはechoインスタンスを組み立てて返す
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

func Shutdown(ctx context.Context, e *echo.Echo) error {
	return e.Shutdown(ctx)
}
