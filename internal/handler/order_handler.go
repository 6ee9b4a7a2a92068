package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/confirm", h.confirm)
	g.POST("/:id/cancel-request", h.cancelRequest)
	g.POST("/:id/return-request", h.returnRequest)
}

func (h *OrderHandler) create(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	out, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
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

func (h *OrderHandler) detail(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	out, err := h.uc.Detail(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) confirm(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	if err := h.uc.ConfirmDelivered(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

func (h *OrderHandler) cancelRequest(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	if err := h.uc.CancelRequest(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

type ReturnRequestBody struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) returnRequest(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSONBody("unauthorized"))
	}

	var req ReturnRequestBody
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid body"))
	}

	out, err := h.uc.ReturnRequest(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

//middleware.AuthJWT が c.Set した user_id / user_role を取り出す

func getActorFromContext(c echo.Context) (usecase.Actor, bool) {
	rawID := c.Get(middleware.CtxUserIDKey)
	id, ok := rawID.(int64)
	if !ok || id <= 0 {
		return usecase.Actor{}, false
	}

	rawRole := c.Get(middleware.CtxUserRoleKey)
	role, ok := rawRole.(string)
	if !ok || role == "" {
		return usecase.Actor{}, false
	}

	return usecase.Actor{UserID: id, Role: model.Role(role)}, true
}

func errorJSONBody(msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:    usecase.CodeUnauthorized,
		Message: msg,
		Details: map[string]interface{}{},
	}}
}
