package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReturnHandler struct {
	uc *usecase.ReturnUsecase
}

func NewReturnHandler(uc *usecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

func (h *ReturnHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/returns")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *ReturnHandler) list(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	page, limit, err := pageLimit(c, 1, 20)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), actor, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReturnHandler) detail(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid id"))
	}

	out, err := h.uc.Detail(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
