package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 公開カタログの読み取りだけ。書き込みは別システムの仕事
type ProductUsecase struct {
	products repo.ProductRepository
	options  repo.OptionRepository
	variants repo.VariantRepository
}

func NewProductUsecase(
	products repo.ProductRepository,
	options repo.OptionRepository,
	variants repo.VariantRepository,
) *ProductUsecase {
	return &ProductUsecase{
		products: products,
		options:  options,
		variants: variants,
	}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, q repo.ProductListQuery) (ProductListOutput, error) {
	if q.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid page")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid limit")
	}

	items, total, err := u.products.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, errDB()
	}

	return ProductListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

type ProductDetailOutput struct {
	Product  model.Product          `json:"product"`
	Options  []model.ProductOption  `json:"options"`
	Variants []model.ProductVariant `json:"variants"`
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidationError, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewHTTPErrorWithDetails(
			http.StatusNotFound, CodeNotFound, "product not found",
			map[string]interface{}{"id": productID},
		)
	}
	if err != nil {
		return ProductDetailOutput{}, errDB()
	}
	if !p.IsActive {
		return ProductDetailOutput{}, NewHTTPErrorWithDetails(
			http.StatusNotFound, CodeNotFound, "product not found",
			map[string]interface{}{"id": productID},
		)
	}

	opts, err := u.options.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, errDB()
	}
	variants, err := u.variants.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, errDB()
	}

	return ProductDetailOutput{Product: p, Options: opts, Variants: variants}, nil
}
