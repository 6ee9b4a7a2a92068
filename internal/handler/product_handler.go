package handler

import (
	"net/http"
	"strconv"

	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: ErrorBody{
			Code:    he.Code,
			Message: he.Message,
			Details: he.Details,
		}})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Code:    usecase.CodeInternal,
		Message: "internal error",
		Details: map[string]interface{}{},
	}})
}

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	page, limit, err := pageLimit(c, 1, 20)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), repository.ProductListQuery{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid id"))
	}

	out, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// page/limitのクエリパラメータ共通処理
func pageLimit(c echo.Context, defPage int, defLimit int) (int, int, error) {
	page := defPage
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid page")
		}
		page = p
	}

	limit := defLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, usecase.CodeValidationError, "invalid limit")
		}
		limit = l
	}

	return page, limit, nil
}
