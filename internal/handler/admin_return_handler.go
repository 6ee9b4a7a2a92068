package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminReturnHandler struct {
	uc *usecase.ReturnUsecase
}

func NewAdminReturnHandler(uc *usecase.ReturnUsecase) *AdminReturnHandler {
	return &AdminReturnHandler{uc: uc}
}

func (h *AdminReturnHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/returns")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.POST("/:id/approve", h.approve)
	g.POST("/:id/reject", h.reject)
}

func (h *AdminReturnHandler) list(c echo.Context) error {
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

func (h *AdminReturnHandler) approve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid id"))
	}

	var req usecase.ApproveReturnInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	if err := h.uc.Approve(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "approved"})
}

func (h *AdminReturnHandler) reject(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid id"))
	}

	var req usecase.RejectReturnInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	if err := h.uc.Reject(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "rejected"})
}
