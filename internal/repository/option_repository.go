package repository

import (
	"app/internal/domain/model"
	"context"
)

type OptionRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductOption, error)

	//商品にオプションが1つでもあるか（resolverの分岐に使う）
	CountByProductID(ctx context.Context, productID int64) (int64, error)

	//(product, group, value) で1件引く。無ければErrNotFound
	FindByValue(ctx context.Context, productID int64, group model.OptionGroup, value string) (model.ProductOption, error)
}
