package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/deposit-confirm", h.depositConfirm)
	g.POST("/:id/ship", h.ship)
	g.POST("/:id/deliver", h.deliver)
	g.POST("/:id/refund-log", h.refundLog)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, limit, err := pageLimit(c, 1, 20)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Q:      c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	out, err := h.uc.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) depositConfirm(c echo.Context) error {
	if err := h.uc.DepositConfirm(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deposit confirmed"})
}

func (h *AdminOrderHandler) ship(c echo.Context) error {
	var req usecase.ShipOrderInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	if err := h.uc.Ship(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "shipped"})
}

func (h *AdminOrderHandler) deliver(c echo.Context) error {
	if err := h.uc.Deliver(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "delivered"})
}

func (h *AdminOrderHandler) refundLog(c echo.Context) error {
	var req usecase.RefundLogInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	if err := h.uc.RecordRefundLog(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "refund logged"})
}
