package repository

import (
	"app/internal/domain/model"
	"context"
)

// variantの読み取りと在庫の増減。
// 在庫はここの2つのprimitive以外から書き換えてはいけない。
type VariantRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	//オプション無し商品のデフォルトvariant（両FKがnull）
	FindDefaultByProductID(ctx context.Context, productID int64) (model.ProductVariant, error)

	//解決済みオプションIDの組と完全一致するvariant
	FindBySelection(ctx context.Context, productID int64, sel model.OptionSelection) (model.ProductVariant, error)

	//在庫が足りるときだけ減算（条件付き1文UPDATE）。falseなら在庫不足
	DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error)

	//在庫戻し（キャンセル・期限切れ）
	IncreaseStock(ctx context.Context, variantID int64, qty int64) error
}
